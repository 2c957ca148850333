package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Offer is one store carrying a product, joined with that store's price if
// the ledger has one. Price columns are nil when there is no price row.
type Offer struct {
	MembershipID        string              `json:"membershipId"`
	StoreID             string              `json:"storeId"`
	ProductID           string              `json:"productId"`
	MembershipAvailable bool                `json:"membershipAvailable"`
	StoreName           string              `json:"storeName"`
	StoreBrand          string              `json:"storeBrand"`
	StoreAddress        string              `json:"storeAddress"`
	StoreCity           string              `json:"storeCity"`
	StoreLatitude       decimal.Decimal     `json:"storeLatitude"`
	StoreLongitude      decimal.Decimal     `json:"storeLongitude"`
	PriceID             *string             `json:"priceId"`
	Amount              decimal.NullDecimal `json:"amount"`
	IsPromotion         *bool               `json:"isPromotion"`
	PriceAvailable      *bool               `json:"priceAvailable"`
	Source              *string             `json:"source"`
	LastUpdated         *time.Time          `json:"lastUpdated"`
}

type OfferRepository interface {
	OffersForProduct(ctx context.Context, productID string) ([]Offer, error)
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

// OffersForProduct joins memberships of productID with active stores and
// left-joins the price ledger. Rows come back in membership creation order.
func (r *offerRepository) OffersForProduct(ctx context.Context, productID string) ([]Offer, error) {
	var offers []Offer
	err := r.db.WithContext(ctx).
		Table("store_products AS sp").
		Select(`sp.id AS membership_id,
			sp.store_id AS store_id,
			sp.product_id AS product_id,
			sp.is_available AS membership_available,
			s.name AS store_name,
			s.brand AS store_brand,
			s.address AS store_address,
			s.city AS store_city,
			s.latitude AS store_latitude,
			s.longitude AS store_longitude,
			p.id AS price_id,
			p.amount AS amount,
			p.is_promotion AS is_promotion,
			p.is_available AS price_available,
			p.source AS source,
			p.last_updated AS last_updated`).
		Joins("JOIN stores s ON s.id = sp.store_id AND s.is_active = ?", true).
		Joins("LEFT JOIN prices p ON p.store_id = sp.store_id AND p.product_id = sp.product_id").
		Where("sp.product_id = ?", productID).
		Order("sp.created_at ASC").
		Order("sp.id ASC").
		Scan(&offers).Error
	return offers, err
}
