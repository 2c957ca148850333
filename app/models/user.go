package models

import (
	"time"
)

// User mirrors the account row owned by the authentication service. Only the
// identity and role are read here.
type User struct {
	ID          string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	DisplayName string    `gorm:"size:100" json:"displayName"`
	Email       string    `gorm:"size:100;not null;uniqueIndex" json:"-"`
	Role        string    `gorm:"size:20;default:'customer';not null" json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
