package seeders

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campuseats/canteen/app/models"
	"github.com/campuseats/canteen/pkg/auth"
)

func init() {
	Register("users", SeedUsers)
	Register("catalog", SeedCatalog)
}

// SeedUsers creates an admin account and a demo customer. Safe to run
// twice; existing emails are left alone.
func SeedUsers(db *gorm.DB) error {
	users := []struct {
		name, email, password, role string
	}{
		{"Canteen Admin", "admin@campus.test", "admin12345", models.RoleAdmin},
		{"Demo Student", "student@campus.test", "student123", models.RoleCustomer},
	}
	for _, u := range users {
		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", u.email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		user := models.User{Name: u.name, Email: u.email, Password: hash, Role: u.role}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedCatalog creates two canteens with a small menu each.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Canteen{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	main := models.Canteen{Name: "Main Block Canteen", Description: "Ground floor, main academic block"}
	hostel := models.Canteen{Name: "Hostel Mess", Description: "Next to hostel B"}
	if err := db.Create(&main).Error; err != nil {
		return err
	}
	if err := db.Create(&hostel).Error; err != nil {
		return err
	}

	beverages := models.Category{Name: "Beverages"}
	snacks := models.Category{Name: "Snacks"}
	meals := models.Category{Name: "Meals"}
	for _, c := range []*models.Category{&beverages, &snacks, &meals} {
		if err := db.Create(c).Error; err != nil {
			return err
		}
	}

	items := []models.MenuItem{
		{CanteenID: main.ID, CategoryID: &beverages.ID, Name: "Masala Chai", Price: decimal.RequireFromString("12.00"), IsAvailable: true},
		{CanteenID: main.ID, CategoryID: &beverages.ID, Name: "Cold Coffee", Price: decimal.RequireFromString("35.50"), IsAvailable: true},
		{CanteenID: main.ID, CategoryID: &snacks.ID, Name: "Samosa", Price: decimal.RequireFromString("15.00"), IsAvailable: true},
		{CanteenID: main.ID, CategoryID: &meals.ID, Name: "Veg Thali", Price: decimal.RequireFromString("80.00"), IsAvailable: true},
		{CanteenID: hostel.ID, CategoryID: &snacks.ID, Name: "Maggi", Price: decimal.RequireFromString("30.00"), IsAvailable: true},
		{CanteenID: hostel.ID, CategoryID: &meals.ID, Name: "Chicken Biryani", Price: decimal.RequireFromString("120.00"), IsAvailable: true},
	}
	return db.Create(&items).Error
}
