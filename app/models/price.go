package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PriceSource string

const (
	PriceSourceScraping     PriceSource = "scraping"
	PriceSourceUser         PriceSource = "user"
	PriceSourceAdmin        PriceSource = "admin"
	PriceSourceContribution PriceSource = "contribution"
)

func (s PriceSource) Valid() bool {
	switch s {
	case PriceSourceScraping, PriceSourceUser, PriceSourceAdmin, PriceSourceContribution:
		return true
	}
	return false
}

// Price is the single authoritative price for a (store, product) pair. The
// unique index backs the ledger's insert-or-update.
type Price struct {
	ID          string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	StoreID     string          `gorm:"size:36;not null;uniqueIndex:idx_prices_store_product,priority:1" json:"storeId"`
	Store       *Store          `gorm:"foreignKey:StoreID" json:"-"`
	ProductID   string          `gorm:"size:36;not null;uniqueIndex:idx_prices_store_product,priority:2;index" json:"productId"`
	Product     *Product        `gorm:"foreignKey:ProductID" json:"-"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	IsPromotion bool            `gorm:"not null;default:false" json:"isPromotion"`
	IsAvailable bool            `gorm:"not null" json:"isAvailable"`
	Source      PriceSource     `gorm:"size:20;not null" json:"source"`
	LastUpdated time.Time       `gorm:"not null" json:"lastUpdated"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (p *Price) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
