package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VoteKind string

const (
	VoteKindPrice        VoteKind = "price"
	VoteKindAvailability VoteKind = "availability"
)

// Vote is a user's thumbs-up/down on the price or availability of a product
// in a store. Value=true means "accurate" for price votes and "in stock" for
// availability votes.
type Vote struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"userId"`
	StoreID   string    `gorm:"size:36;not null;index" json:"storeId"`
	ProductID string    `gorm:"size:36;not null;index" json:"productId"`
	Kind      VoteKind  `gorm:"size:20;not null" json:"kind"`
	Value     bool      `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"createdAt"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return
}
