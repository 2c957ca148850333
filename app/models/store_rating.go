package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreRating struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	StoreID   string    `gorm:"size:36;not null;uniqueIndex:idx_store_ratings_user,priority:1" json:"storeId"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_store_ratings_user,priority:2" json:"userId"`
	Score     int       `gorm:"not null" json:"score"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *StoreRating) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
