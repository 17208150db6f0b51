package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuseats/canteen/app/models"
	"github.com/campuseats/canteen/app/repositories"
	"github.com/campuseats/canteen/app/services"
)

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	orders := orderRepo(db)
	cart := services.NewCartService(catalogRepo(db))
	orderSvc := services.NewOrderService(orders, cart)
	svc := services.NewDashboardService(orders, repositories.NewUserRepository(db))

	// Two orders today; only the fulfilled one counts toward revenue.
	fulfilled, err := orderSvc.Place(services.PlaceOrderInput{
		CustomerID: f.customer.ID,
		CanteenID:  f.canteen.ID,
		Lines:      []services.CartLine{{MenuItemID: f.chai.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	_, err = orderSvc.Place(services.PlaceOrderInput{
		CustomerID: f.customer.ID,
		CanteenID:  f.canteen.ID,
		Lines:      []services.CartLine{{MenuItemID: f.samosa.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = orderSvc.UpdateStatus(fulfilled.ID, models.StatusProcessing)
	require.NoError(t, err)
	_, err = orderSvc.UpdateStatus(fulfilled.ID, models.StatusReady)
	require.NoError(t, err)

	stats, err := svc.Stats()
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.OrdersToday)
	assert.True(t, stats.RevenueToday.Equal(dec("25.00")), "got %s", stats.RevenueToday)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.TotalCustomers)
	assert.Len(t, stats.OrdersByHour, 24)
	assert.Len(t, stats.WeeklyRevenue, 7)

	var byHour int64
	for _, n := range stats.OrdersByHour {
		byHour += n
	}
	assert.Equal(t, int64(2), byHour)
}

func TestDashboardStatsEmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewDashboardService(
		orderRepo(db), repositories.NewUserRepository(db))

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.OrdersToday)
	assert.True(t, stats.RevenueToday.IsZero())
	assert.True(t, stats.AvgOrderValue.IsZero())
}
