package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreProduct records that a store carries a product, independent of price.
type StoreProduct struct {
	ID          string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	StoreID     string    `gorm:"size:36;not null;uniqueIndex:idx_store_products_pair,priority:1" json:"storeId"`
	Store       *Store    `gorm:"foreignKey:StoreID" json:"-"`
	ProductID   string    `gorm:"size:36;not null;uniqueIndex:idx_store_products_pair,priority:2;index" json:"productId"`
	Product     *Product  `gorm:"foreignKey:ProductID" json:"-"`
	IsAvailable bool      `gorm:"not null" json:"isAvailable"`
	LastChecked time.Time `gorm:"not null" json:"lastChecked"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (sp *StoreProduct) BeforeCreate(tx *gorm.DB) (err error) {
	if sp.ID == "" {
		sp.ID = uuid.New().String()
	}
	return
}
