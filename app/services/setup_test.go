package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campuseats/canteen/app/models"
	"github.com/campuseats/canteen/app/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Canteen{},
		&models.Category{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

type fixtures struct {
	customer models.User
	canteen  models.Canteen
	other    models.Canteen
	chai     models.MenuItem // 12.50
	samosa   models.MenuItem // 7.25
	biryani  models.MenuItem // 120.00, other canteen
	soldOut  models.MenuItem // unavailable
}

func seedFixtures(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()
	f := fixtures{
		customer: models.User{Name: "Asha", Email: "asha@campus.test", Password: "x", Role: models.RoleCustomer},
		canteen:  models.Canteen{Name: "Main Block Canteen"},
		other:    models.Canteen{Name: "Hostel Mess"},
	}
	require.NoError(t, db.Create(&f.customer).Error)
	require.NoError(t, db.Create(&f.canteen).Error)
	require.NoError(t, db.Create(&f.other).Error)

	f.chai = models.MenuItem{CanteenID: f.canteen.ID, Name: "Masala Chai", Price: dec("12.50"), IsAvailable: true}
	f.samosa = models.MenuItem{CanteenID: f.canteen.ID, Name: "Samosa", Price: dec("7.25"), IsAvailable: true}
	f.biryani = models.MenuItem{CanteenID: f.other.ID, Name: "Chicken Biryani", Price: dec("120.00"), IsAvailable: true}
	f.soldOut = models.MenuItem{CanteenID: f.canteen.ID, Name: "Veg Thali", Price: dec("80.00"), IsAvailable: false}
	for _, item := range []*models.MenuItem{&f.chai, &f.samosa, &f.biryani, &f.soldOut} {
		require.NoError(t, db.Create(item).Error)
	}
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func catalogRepo(db *gorm.DB) *repositories.CatalogRepository {
	return repositories.NewCatalogRepository(db)
}

func orderRepo(db *gorm.DB) *repositories.OrderRepository {
	return repositories.NewOrderRepository(db)
}
