package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusReady      OrderStatus = "READY"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// statusTransitions is the closed set of legal moves. COMPLETED and
// CANCELLED are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusReady, StatusCancelled},
	StatusReady:      {StatusCompleted},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is a committed purchase. TotalPrice is always computed server
// side from the item snapshots, never taken from the client.
//
// RazorpayPaymentID is nullable and unique: a gateway payment settles at
// most one order, which is what makes verification idempotent under
// retries.
type Order struct {
	gorm.Model
	CustomerID        uint            `gorm:"not null;index" json:"customer_id"`
	Customer          User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CanteenID         uint            `gorm:"not null;index" json:"canteen_id"`
	Canteen           Canteen         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Status            OrderStatus     `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	TotalPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Notes             string          `gorm:"type:text" json:"notes"`
	TableNumber       string          `gorm:"size:20" json:"table_number"`
	RazorpayOrderID   string          `gorm:"size:64;index" json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID *string         `gorm:"size:64;uniqueIndex" json:"razorpay_payment_id,omitempty"`
	Items             []OrderItem     `json:"items"`
}

// OrderItem freezes the unit price of a menu item at commit time. Later
// catalog edits never change what an existing order cost.
type OrderItem struct {
	gorm.Model
	OrderID    uint            `gorm:"not null;index" json:"order_id"`
	MenuItemID uint            `gorm:"not null" json:"menu_item_id"`
	MenuItem   MenuItem        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

// LineTotal is the frozen unit price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
