package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campuseats/canteen/app/models"
	"github.com/campuseats/canteen/app/repositories"
	"github.com/campuseats/canteen/pkg/cache"
	"github.com/campuseats/canteen/pkg/logger"
)

const catalogCacheTTL = 5 * time.Minute

// CatalogService serves public catalog listings (cached) and admin
// catalog writes (which invalidate the cache).
type CatalogService struct {
	catalog *repositories.CatalogRepository
}

func NewCatalogService(catalog *repositories.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// Canteens lists all canteens, served from cache when possible.
func (s *CatalogService) Canteens() ([]models.Canteen, error) {
	var canteens []models.Canteen
	if cache.Get("catalog:canteens", &canteens) {
		return canteens, nil
	}
	canteens, err := s.catalog.Canteens()
	if err != nil {
		return nil, err
	}
	if err := cache.Set("catalog:canteens", canteens, catalogCacheTTL); err != nil {
		logger.Warn("cache set failed", "key", "catalog:canteens", "error", err)
	}
	return canteens, nil
}

// Canteen loads one canteen by id.
func (s *CatalogService) Canteen(id uint) (models.Canteen, error) {
	canteen, err := s.catalog.FindCanteen(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Canteen{}, ErrNotFound
	}
	return canteen, err
}

// Categories lists all categories, served from cache when possible.
func (s *CatalogService) Categories() ([]models.Category, error) {
	var categories []models.Category
	if cache.Get("catalog:categories", &categories) {
		return categories, nil
	}
	categories, err := s.catalog.Categories()
	if err != nil {
		return nil, err
	}
	if err := cache.Set("catalog:categories", categories, catalogCacheTTL); err != nil {
		logger.Warn("cache set failed", "key", "catalog:categories", "error", err)
	}
	return categories, nil
}

// MenuItems lists menu items for the public menu. Only available items
// are returned unless includeUnavailable is set (admin listings).
func (s *CatalogService) MenuItems(canteenID, categoryID uint, includeUnavailable bool) ([]models.MenuItem, error) {
	key := fmt.Sprintf("catalog:menu:%d:%d:%t", canteenID, categoryID, includeUnavailable)
	var items []models.MenuItem
	if cache.Get(key, &items) {
		return items, nil
	}
	items, err := s.catalog.MenuItems(repositories.MenuItemFilter{
		CanteenID:     canteenID,
		CategoryID:    categoryID,
		AvailableOnly: !includeUnavailable,
	})
	if err != nil {
		return nil, err
	}
	if err := cache.Set(key, items, catalogCacheTTL); err != nil {
		logger.Warn("cache set failed", "key", key, "error", err)
	}
	return items, nil
}

// MenuItemInput carries admin create/update fields for a menu item.
type MenuItemInput struct {
	CanteenID   uint
	CategoryID  *uint
	Name        string
	Description string
	Price       decimal.Decimal
	IsAvailable bool
}

// CreateMenuItem adds a catalog item. The price must be positive with at
// most two decimal places.
func (s *CatalogService) CreateMenuItem(in MenuItemInput) (models.MenuItem, error) {
	if err := s.checkMenuItemInput(in); err != nil {
		return models.MenuItem{}, err
	}
	item := models.MenuItem{
		CanteenID:   in.CanteenID,
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		IsAvailable: in.IsAvailable,
	}
	if err := s.catalog.CreateMenuItem(&item); err != nil {
		return models.MenuItem{}, err
	}
	s.invalidate()
	return item, nil
}

// UpdateMenuItem edits a catalog item. Existing orders keep the prices
// frozen at commit time.
func (s *CatalogService) UpdateMenuItem(id uint, in MenuItemInput) (models.MenuItem, error) {
	if err := s.checkMenuItemInput(in); err != nil {
		return models.MenuItem{}, err
	}
	item, err := s.catalog.FindMenuItem(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.MenuItem{}, ErrNotFound
	}
	if err != nil {
		return models.MenuItem{}, err
	}
	item.CanteenID = in.CanteenID
	item.CategoryID = in.CategoryID
	item.Name = in.Name
	item.Description = in.Description
	item.Price = in.Price
	item.IsAvailable = in.IsAvailable
	if err := s.catalog.UpdateMenuItem(&item); err != nil {
		return models.MenuItem{}, err
	}
	s.invalidate()
	return item, nil
}

// DeleteMenuItem removes a catalog item. Order line items keep their
// snapshots.
func (s *CatalogService) DeleteMenuItem(id uint) error {
	if _, err := s.catalog.FindMenuItem(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	if err := s.catalog.DeleteMenuItem(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// CreateCanteen adds a canteen.
func (s *CatalogService) CreateCanteen(name, description string) (models.Canteen, error) {
	canteen := models.Canteen{Name: name, Description: description}
	if err := s.catalog.CreateCanteen(&canteen); err != nil {
		return models.Canteen{}, err
	}
	s.invalidate()
	return canteen, nil
}

// UpdateCanteen edits a canteen.
func (s *CatalogService) UpdateCanteen(id uint, name, description string) (models.Canteen, error) {
	canteen, err := s.catalog.FindCanteen(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Canteen{}, ErrNotFound
	}
	if err != nil {
		return models.Canteen{}, err
	}
	canteen.Name = name
	canteen.Description = description
	if err := s.catalog.UpdateCanteen(&canteen); err != nil {
		return models.Canteen{}, err
	}
	s.invalidate()
	return canteen, nil
}

// DeleteCanteen removes a canteen and cascades to its menu items.
func (s *CatalogService) DeleteCanteen(id uint) error {
	if _, err := s.catalog.FindCanteen(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	if err := s.catalog.DeleteCanteen(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// CreateCategory adds a category.
func (s *CatalogService) CreateCategory(name string) (models.Category, error) {
	category := models.Category{Name: name}
	if err := s.catalog.CreateCategory(&category); err != nil {
		return models.Category{}, err
	}
	s.invalidate()
	return category, nil
}

// UpdateCategory renames a category.
func (s *CatalogService) UpdateCategory(id uint, name string) (models.Category, error) {
	category, err := s.catalog.FindCategory(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Category{}, ErrNotFound
	}
	if err != nil {
		return models.Category{}, err
	}
	category.Name = name
	if err := s.catalog.UpdateCategory(&category); err != nil {
		return models.Category{}, err
	}
	s.invalidate()
	return category, nil
}

// DeleteCategory removes a category; its menu items fall back to no
// category.
func (s *CatalogService) DeleteCategory(id uint) error {
	if err := s.catalog.DeleteCategory(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *CatalogService) checkMenuItemInput(in MenuItemInput) error {
	if in.Price.IsNegative() || in.Price.IsZero() {
		return validationErrorf("price must be positive")
	}
	if in.Price.Exponent() < -2 {
		return validationErrorf("price cannot have more than two decimal places")
	}
	if _, err := s.catalog.FindCanteen(in.CanteenID); errors.Is(err, gorm.ErrRecordNotFound) {
		return validationErrorf("canteen %d does not exist", in.CanteenID)
	} else if err != nil {
		return err
	}
	return nil
}

func (s *CatalogService) invalidate() {
	if err := cache.DelPattern("catalog:*"); err != nil {
		logger.Warn("cache invalidation failed", "error", err)
	}
}
