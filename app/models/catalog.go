package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Canteen is a physical outlet. Menu items and orders are scoped to one.
type Canteen struct {
	gorm.Model
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// Category groups menu items across canteens (e.g. Beverages, Snacks).
type Category struct {
	gorm.Model
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

// MenuItem is a purchasable item belonging to exactly one canteen.
//
// Price is fixed-point decimal(10,2); money never passes through a float.
// The canteen affiliation is re-validated at order time, not cached by
// clients.
type MenuItem struct {
	gorm.Model
	CanteenID   uint            `gorm:"not null;index" json:"canteen_id"`
	Canteen     Canteen         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CategoryID  *uint           `gorm:"index" json:"category_id"`
	Category    *Category       `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable bool            `gorm:"not null;default:true" json:"is_available"`
}
