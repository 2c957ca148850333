package repositories

import (
	"context"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingSummary struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

type StoreRatingRepository interface {
	WithTx(tx *gorm.DB) StoreRatingRepository
	Upsert(ctx context.Context, rating *models.StoreRating) error
	FindByStore(ctx context.Context, storeID string) ([]models.StoreRating, error)
	Summary(ctx context.Context, storeID string) (RatingSummary, error)
	DeleteByStore(ctx context.Context, storeID string) (int64, error)
}

type storeRatingRepository struct {
	db *gorm.DB
}

func NewStoreRatingRepository(db *gorm.DB) StoreRatingRepository {
	return &storeRatingRepository{db: db}
}

func (r *storeRatingRepository) WithTx(tx *gorm.DB) StoreRatingRepository {
	return &storeRatingRepository{db: tx}
}

// Upsert keeps one rating per (store, user); re-rating overwrites score and comment.
func (r *storeRatingRepository) Upsert(ctx context.Context, rating *models.StoreRating) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "comment", "updated_at"}),
		}).
		Create(rating).Error
}

func (r *storeRatingRepository) FindByStore(ctx context.Context, storeID string) ([]models.StoreRating, error) {
	var ratings []models.StoreRating
	err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Order("created_at DESC").Find(&ratings).Error
	return ratings, err
}

func (r *storeRatingRepository) Summary(ctx context.Context, storeID string) (RatingSummary, error) {
	var out struct {
		Count   int64
		Average *float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.StoreRating{}).
		Select("COUNT(*) AS count, AVG(score) AS average").
		Where("store_id = ?", storeID).
		Scan(&out).Error
	if err != nil {
		return RatingSummary{}, err
	}
	summary := RatingSummary{Count: out.Count}
	if out.Average != nil {
		summary.Average = *out.Average
	}
	return summary, nil
}

func (r *storeRatingRepository) DeleteByStore(ctx context.Context, storeID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("store_id = ?", storeID).Delete(&models.StoreRating{})
	return res.RowsAffected, res.Error
}
