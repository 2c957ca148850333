package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNegativePrice = errors.New("price amount must not be negative")

type PriceOptions struct {
	IsPromotion bool
	IsAvailable bool
	Source      models.PriceSource
}

// PriceRepository is the price ledger. UpsertPrice is the only write path
// for amounts and keeps at most one row per (store, product).
type PriceRepository interface {
	WithTx(tx *gorm.DB) PriceRepository
	UpsertPrice(ctx context.Context, storeID, productID string, amount decimal.Decimal, opts PriceOptions) (*models.Price, error)
	FindByPair(ctx context.Context, storeID, productID string) (*models.Price, error)
	FindByStore(ctx context.Context, storeID string) ([]models.Price, error)
	FindByProduct(ctx context.Context, productID string) ([]models.Price, error)
	SetAvailability(ctx context.Context, storeID, productID string, isAvailable bool) (bool, error)
	DeleteByStore(ctx context.Context, storeID string) (int64, error)
	DeleteByProduct(ctx context.Context, productID string) (int64, error)
	DeleteByPair(ctx context.Context, storeID, productID string) (int64, error)
}

type priceRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db, now: time.Now}
}

func (r *priceRepository) WithTx(tx *gorm.DB) PriceRepository {
	return &priceRepository{db: tx, now: r.now}
}

func (r *priceRepository) UpsertPrice(ctx context.Context, storeID, productID string, amount decimal.Decimal, opts PriceOptions) (*models.Price, error) {
	if amount.IsNegative() {
		return nil, ErrNegativePrice
	}
	if opts.Source == "" {
		opts.Source = models.PriceSourceAdmin
	}

	now := r.now()
	row := models.Price{
		StoreID:     storeID,
		ProductID:   productID,
		Amount:      amount,
		IsPromotion: opts.IsPromotion,
		IsAvailable: opts.IsAvailable,
		Source:      opts.Source,
		LastUpdated: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"amount",
				"is_promotion",
				"is_available",
				"source",
				"last_updated",
				"updated_at",
			}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, err
	}

	// On conflict the generated ID on row is not the stored one.
	return r.FindByPair(ctx, storeID, productID)
}

func (r *priceRepository) FindByPair(ctx context.Context, storeID, productID string) (*models.Price, error) {
	var price models.Price
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&price).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

func (r *priceRepository) FindByStore(ctx context.Context, storeID string) ([]models.Price, error) {
	var prices []models.Price
	err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Find(&prices).Error
	return prices, err
}

func (r *priceRepository) FindByProduct(ctx context.Context, productID string) ([]models.Price, error) {
	var prices []models.Price
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Find(&prices).Error
	return prices, err
}

// SetAvailability flips is_available on an existing row and reports whether
// one existed. It never creates a price.
func (r *priceRepository) SetAvailability(ctx context.Context, storeID, productID string, isAvailable bool) (bool, error) {
	now := r.now()
	res := r.db.WithContext(ctx).
		Model(&models.Price{}).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Updates(map[string]interface{}{
			"is_available": isAvailable,
			"last_updated": now,
			"updated_at":   now,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *priceRepository) DeleteByStore(ctx context.Context, storeID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("store_id = ?", storeID).Delete(&models.Price{})
	return res.RowsAffected, res.Error
}

func (r *priceRepository) DeleteByProduct(ctx context.Context, productID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.Price{})
	return res.RowsAffected, res.Error
}

func (r *priceRepository) DeleteByPair(ctx context.Context, storeID, productID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("store_id = ? AND product_id = ?", storeID, productID).Delete(&models.Price{})
	return res.RowsAffected, res.Error
}
