package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreProductRepository owns store catalog membership: at most one row per
// (store, product).
type StoreProductRepository interface {
	WithTx(tx *gorm.DB) StoreProductRepository
	EnsureMembership(ctx context.Context, storeID, productID string, isAvailable bool) (*models.StoreProduct, error)
	CreateIfMissing(ctx context.Context, storeID, productID string, isAvailable bool) (*models.StoreProduct, bool, error)
	SetAvailability(ctx context.Context, membershipID string, isAvailable bool) (*models.StoreProduct, error)
	FindByID(ctx context.Context, id string) (*models.StoreProduct, error)
	FindByPair(ctx context.Context, storeID, productID string) (*models.StoreProduct, error)
	FindByStore(ctx context.Context, storeID string) ([]models.StoreProduct, error)
	ProductIDsByStore(ctx context.Context, storeID string) ([]string, error)
	Remove(ctx context.Context, storeID, productID string) (int64, error)
	DeleteByStore(ctx context.Context, storeID string) (int64, error)
	DeleteByProduct(ctx context.Context, productID string) (int64, error)
}

type storeProductRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStoreProductRepository(db *gorm.DB) StoreProductRepository {
	return &storeProductRepository{db: db, now: time.Now}
}

func (r *storeProductRepository) WithTx(tx *gorm.DB) StoreProductRepository {
	return &storeProductRepository{db: tx, now: r.now}
}

// EnsureMembership inserts the pair or refreshes is_available/last_checked on
// the existing row.
func (r *storeProductRepository) EnsureMembership(ctx context.Context, storeID, productID string, isAvailable bool) (*models.StoreProduct, error) {
	now := r.now()
	row := models.StoreProduct{
		StoreID:     storeID,
		ProductID:   productID,
		IsAvailable: isAvailable,
		LastChecked: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_available", "last_checked", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, err
	}
	return r.FindByPair(ctx, storeID, productID)
}

// CreateIfMissing leaves an existing membership untouched. The bool reports
// whether a row was created.
func (r *storeProductRepository) CreateIfMissing(ctx context.Context, storeID, productID string, isAvailable bool) (*models.StoreProduct, bool, error) {
	now := r.now()
	row := models.StoreProduct{
		StoreID:     storeID,
		ProductID:   productID,
		IsAvailable: isAvailable,
		LastChecked: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	existing, err := r.FindByPair(ctx, storeID, productID)
	if err != nil {
		return nil, false, err
	}
	return existing, res.RowsAffected > 0, nil
}

func (r *storeProductRepository) SetAvailability(ctx context.Context, membershipID string, isAvailable bool) (*models.StoreProduct, error) {
	now := r.now()
	res := r.db.WithContext(ctx).
		Model(&models.StoreProduct{}).
		Where("id = ?", membershipID).
		Updates(map[string]interface{}{
			"is_available": isAvailable,
			"last_checked": now,
			"updated_at":   now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, membershipID)
}

func (r *storeProductRepository) FindByID(ctx context.Context, id string) (*models.StoreProduct, error) {
	var sp models.StoreProduct
	if err := r.db.WithContext(ctx).First(&sp, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sp, nil
}

func (r *storeProductRepository) FindByPair(ctx context.Context, storeID, productID string) (*models.StoreProduct, error) {
	var sp models.StoreProduct
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&sp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sp, nil
}

func (r *storeProductRepository) FindByStore(ctx context.Context, storeID string) ([]models.StoreProduct, error) {
	var rows []models.StoreProduct
	err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *storeProductRepository) ProductIDsByStore(ctx context.Context, storeID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.StoreProduct{}).
		Where("store_id = ?", storeID).
		Pluck("product_id", &ids).Error
	return ids, err
}

// Remove deletes only the membership row. Dependent prices, votes and
// contributions must already be gone; see CascadeService.
func (r *storeProductRepository) Remove(ctx context.Context, storeID, productID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("store_id = ? AND product_id = ?", storeID, productID).Delete(&models.StoreProduct{})
	return res.RowsAffected, res.Error
}

func (r *storeProductRepository) DeleteByStore(ctx context.Context, storeID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("store_id = ?", storeID).Delete(&models.StoreProduct{})
	return res.RowsAffected, res.Error
}

func (r *storeProductRepository) DeleteByProduct(ctx context.Context, productID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.StoreProduct{})
	return res.RowsAffected, res.Error
}
