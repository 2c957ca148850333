package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TimeRange is an opening interval in "HH:MM" local time.
type TimeRange struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// OpeningHours maps a lower-case weekday ("monday") to its intervals.
// A missing day means closed.
type OpeningHours map[string][]TimeRange

type Store struct {
	ID           string                           `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name         string                           `gorm:"size:255;not null" json:"name"`
	Brand        string                           `gorm:"size:100" json:"brand"`
	CategoryID   *string                          `gorm:"size:36;index" json:"categoryId"`
	Category     *Category                        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Address      string                           `gorm:"size:255" json:"address"`
	City         string                           `gorm:"size:100;index" json:"city"`
	PostalCode   string                           `gorm:"size:20" json:"postalCode"`
	Latitude     decimal.Decimal                  `gorm:"type:decimal(10,7);not null" json:"latitude"`
	Longitude    decimal.Decimal                  `gorm:"type:decimal(10,7);not null" json:"longitude"`
	Phone        string                           `gorm:"size:30" json:"phone"`
	OpeningHours datatypes.JSONType[OpeningHours] `json:"openingHours"`
	IsActive     bool                             `gorm:"not null" json:"isActive"`
	CreatedAt    time.Time                        `json:"createdAt"`
	UpdatedAt    time.Time                        `json:"updatedAt"`
}

func (s *Store) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}
