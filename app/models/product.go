package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Brand     string    `gorm:"size:100" json:"brand"`
	Category  string    `gorm:"size:100;index" json:"category"`
	Unit      string    `gorm:"size:50" json:"unit"`
	Barcode   *string   `gorm:"size:50;uniqueIndex" json:"barcode,omitempty"`
	Image     string    `gorm:"size:500" json:"image"`
	IsActive  bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
