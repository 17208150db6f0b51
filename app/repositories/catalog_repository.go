package repositories

import (
	"gorm.io/gorm"

	"github.com/campuseats/canteen/app/models"
)

// CatalogRepository handles database operations for canteens, categories
// and menu items.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Canteens returns all canteens ordered by name.
func (r *CatalogRepository) Canteens() ([]models.Canteen, error) {
	var canteens []models.Canteen
	err := r.db.Order("name asc").Find(&canteens).Error
	return canteens, err
}

// FindCanteen looks up a canteen by primary key.
func (r *CatalogRepository) FindCanteen(id uint) (models.Canteen, error) {
	var canteen models.Canteen
	err := r.db.First(&canteen, id).Error
	return canteen, err
}

// CreateCanteen persists a new canteen.
func (r *CatalogRepository) CreateCanteen(c *models.Canteen) error {
	return r.db.Create(c).Error
}

// UpdateCanteen persists changes to an existing canteen.
func (r *CatalogRepository) UpdateCanteen(c *models.Canteen) error {
	return r.db.Save(c).Error
}

// DeleteCanteen soft-deletes a canteen.
func (r *CatalogRepository) DeleteCanteen(id uint) error {
	return r.db.Delete(&models.Canteen{}, id).Error
}

// Categories returns all categories ordered by name.
func (r *CatalogRepository) Categories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("name asc").Find(&categories).Error
	return categories, err
}

// FindCategory looks up a category by primary key.
func (r *CatalogRepository) FindCategory(id uint) (models.Category, error) {
	var category models.Category
	err := r.db.First(&category, id).Error
	return category, err
}

// CreateCategory persists a new category.
func (r *CatalogRepository) CreateCategory(c *models.Category) error {
	return r.db.Create(c).Error
}

// UpdateCategory persists changes to an existing category.
func (r *CatalogRepository) UpdateCategory(c *models.Category) error {
	return r.db.Save(c).Error
}

// DeleteCategory soft-deletes a category.
func (r *CatalogRepository) DeleteCategory(id uint) error {
	return r.db.Delete(&models.Category{}, id).Error
}

// MenuItemFilter narrows menu item listings.
type MenuItemFilter struct {
	CanteenID     uint
	CategoryID    uint
	AvailableOnly bool
}

// MenuItems returns menu items matching the filter.
func (r *CatalogRepository) MenuItems(f MenuItemFilter) ([]models.MenuItem, error) {
	q := r.db.Order("name asc")
	if f.CanteenID != 0 {
		q = q.Where("canteen_id = ?", f.CanteenID)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	var items []models.MenuItem
	err := q.Find(&items).Error
	return items, err
}

// FindMenuItem looks up a menu item by primary key.
func (r *CatalogRepository) FindMenuItem(id uint) (models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.First(&item, id).Error
	return item, err
}

// FindMenuItems loads the given menu items by id. The result may be
// shorter than ids when some do not exist.
func (r *CatalogRepository) FindMenuItems(ids []uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.Where("id IN ?", ids).Find(&items).Error
	return items, err
}

// CreateMenuItem persists a new menu item.
func (r *CatalogRepository) CreateMenuItem(item *models.MenuItem) error {
	return r.db.Create(item).Error
}

// UpdateMenuItem persists changes to an existing menu item.
func (r *CatalogRepository) UpdateMenuItem(item *models.MenuItem) error {
	return r.db.Save(item).Error
}

// DeleteMenuItem soft-deletes a menu item.
func (r *CatalogRepository) DeleteMenuItem(id uint) error {
	return r.db.Delete(&models.MenuItem{}, id).Error
}
