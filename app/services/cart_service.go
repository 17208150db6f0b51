package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campuseats/canteen/app/models"
	"github.com/campuseats/canteen/app/repositories"
)

// CartLine is one requested item with its quantity.
type CartLine struct {
	MenuItemID uint `json:"menu_item_id" validate:"required"`
	Quantity   int  `json:"quantity" validate:"required,gte=1"`
}

// PricedLine is a cart line after validation, carrying the unit price
// read from the catalog at validation time.
type PricedLine struct {
	Item     models.MenuItem
	Quantity int
	Price    decimal.Decimal
}

// PricedCart is the result of validating and pricing a cart. Every line
// belongs to CanteenID and Total is the exact decimal sum of the lines.
type PricedCart struct {
	CanteenID uint
	Lines     []PricedLine
	Total     decimal.Decimal
}

// CartService validates carts against the live catalog and prices them.
type CartService struct {
	catalog *repositories.CatalogRepository
}

func NewCartService(catalog *repositories.CatalogRepository) *CartService {
	return &CartService{catalog: catalog}
}

// Price checks every cart line against the current catalog and computes
// the total from stored prices. The canteen is the one the client
// declared for the whole cart; it must exist and every line must belong
// to it. Empty carts, non-positive quantities, and unknown or
// unavailable items are rejected. Client-declared prices or totals are
// never consulted.
func (s *CartService) Price(canteenID uint, lines []CartLine) (*PricedCart, error) {
	if len(lines) == 0 {
		return nil, validationErrorf("cart is empty")
	}
	if _, err := s.catalog.FindCanteen(canteenID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationErrorf("canteen %d does not exist", canteenID)
		}
		return nil, err
	}

	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, validationErrorf("quantity must be at least 1 for item %d", l.MenuItemID)
		}
		ids = append(ids, l.MenuItemID)
	}

	items, err := s.catalog.FindMenuItems(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.MenuItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	cart := &PricedCart{CanteenID: canteenID, Total: decimal.Zero}
	for _, l := range lines {
		item, ok := byID[l.MenuItemID]
		if !ok {
			return nil, validationErrorf("menu item %d does not exist", l.MenuItemID)
		}
		if !item.IsAvailable {
			return nil, validationErrorf("%s is currently unavailable", item.Name)
		}
		if item.CanteenID != canteenID {
			return nil, validationErrorf("%s does not belong to canteen %d", item.Name, canteenID)
		}

		line := PricedLine{Item: item, Quantity: l.Quantity, Price: item.Price}
		cart.Lines = append(cart.Lines, line)
		cart.Total = cart.Total.Add(item.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return cart, nil
}
