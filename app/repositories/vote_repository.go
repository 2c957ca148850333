package repositories

import (
	"context"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"gorm.io/gorm"
)

type VoteTally struct {
	Up   int64 `json:"up"`
	Down int64 `json:"down"`
}

type VoteRepository interface {
	WithTx(tx *gorm.DB) VoteRepository
	Create(ctx context.Context, v *models.Vote) error
	Tally(ctx context.Context, storeID, productID string, kind models.VoteKind) (VoteTally, error)
	DeleteByStore(ctx context.Context, storeID string) (int64, error)
	DeleteByProduct(ctx context.Context, productID string) (int64, error)
	DeleteByPair(ctx context.Context, storeID, productID string) (int64, error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) WithTx(tx *gorm.DB) VoteRepository {
	return &voteRepository{db: tx}
}

func (r *voteRepository) Create(ctx context.Context, v *models.Vote) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *voteRepository) Tally(ctx context.Context, storeID, productID string, kind models.VoteKind) (VoteTally, error) {
	var tally VoteTally
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.Vote{}).
			Where("store_id = ? AND product_id = ? AND kind = ?", storeID, productID, kind)
	}
	if err := base().Where("value = ?", true).Count(&tally.Up).Error; err != nil {
		return tally, err
	}
	if err := base().Where("value = ?", false).Count(&tally.Down).Error; err != nil {
		return tally, err
	}
	return tally, nil
}

func (r *voteRepository) DeleteByStore(ctx context.Context, storeID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("store_id = ?", storeID).Delete(&models.Vote{})
	return res.RowsAffected, res.Error
}

func (r *voteRepository) DeleteByProduct(ctx context.Context, productID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.Vote{})
	return res.RowsAffected, res.Error
}

func (r *voteRepository) DeleteByPair(ctx context.Context, storeID, productID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("store_id = ? AND product_id = ?", storeID, productID).Delete(&models.Vote{})
	return res.RowsAffected, res.Error
}
