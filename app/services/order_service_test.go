package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuseats/canteen/app/models"
	"github.com/campuseats/canteen/app/services"
	"github.com/campuseats/canteen/pkg/event"
)

func newOrderService(t *testing.T) (*services.OrderService, fixtures) {
	t.Helper()
	db := newTestDB(t)
	f := seedFixtures(t, db)
	cart := services.NewCartService(catalogRepo(db))
	return services.NewOrderService(orderRepo(db), cart), f
}

func TestPlaceCommitsOrderWithFrozenPrices(t *testing.T) {
	svc, f := newOrderService(t)

	order, err := svc.Place(services.PlaceOrderInput{
		CustomerID: f.customer.ID,
		CanteenID: f.canteen.ID,
		Lines: []services.CartLine{
			{MenuItemID: f.chai.ID, Quantity: 2},
			{MenuItemID: f.samosa.ID, Quantity: 1},
		},
		TableNumber: "B4",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.True(t, order.TotalPrice.Equal(dec("32.25")), "got %s", order.TotalPrice)
	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].Price.Equal(dec("12.50")))

	got, err := svc.Find(order.ID, f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "B4", got.TableNumber)
	assert.Len(t, got.Items, 2)
}

func TestPlaceLeavesNothingBehindOnInvalidCart(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := services.NewOrderService(
		orderRepo(db), services.NewCartService(catalogRepo(db)))

	_, err := svc.Place(services.PlaceOrderInput{
		CustomerID: f.customer.ID,
		CanteenID: f.canteen.ID,
		Lines: []services.CartLine{
			{MenuItemID: f.chai.ID, Quantity: 1},
			{MenuItemID: 9999, Quantity: 1},
		},
	})
	require.Error(t, err)

	var orders, items int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestOrderKeepsPriceAfterCatalogEdit(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := services.NewOrderService(
		orderRepo(db), services.NewCartService(catalogRepo(db)))

	order, err := svc.Place(services.PlaceOrderInput{
		CustomerID: f.customer.ID,
		CanteenID:  f.canteen.ID,
		Lines:      []services.CartLine{{MenuItemID: f.chai.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	f.chai.Price = dec("99.00")
	require.NoError(t, db.Save(&f.chai).Error)

	got, err := svc.Find(order.ID, f.customer.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalPrice.Equal(dec("12.50")))
	assert.True(t, got.Items[0].Price.Equal(dec("12.50")))
}

func TestFindHidesOtherCustomersOrders(t *testing.T) {
	svc, f := newOrderService(t)

	order, err := svc.Place(services.PlaceOrderInput{
		CustomerID: f.customer.ID,
		CanteenID:  f.canteen.ID,
		Lines:      []services.CartLine{{MenuItemID: f.chai.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Find(order.ID, f.customer.ID+1)
	assert.ErrorIs(t, err, services.ErrNotFound)

	// Staff lookup skips the ownership check.
	_, err = svc.Find(order.ID, 0)
	assert.NoError(t, err)
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	svc, f := newOrderService(t)

	order, err := svc.Place(services.PlaceOrderInput{
		CustomerID: f.customer.ID,
		CanteenID:  f.canteen.ID,
		Lines:      []services.CartLine{{MenuItemID: f.chai.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	for _, next := range []models.OrderStatus{
		models.StatusProcessing, models.StatusReady, models.StatusCompleted,
	} {
		order, err = svc.UpdateStatus(order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, order.Status)
	}
}

func TestUpdateStatusRejectsIllegalMoves(t *testing.T) {
	svc, f := newOrderService(t)

	order, err := svc.Place(services.PlaceOrderInput{
		CustomerID: f.customer.ID,
		CanteenID:  f.canteen.ID,
		Lines:      []services.CartLine{{MenuItemID: f.chai.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// PENDING cannot skip straight to COMPLETED.
	_, err = svc.UpdateStatus(order.ID, models.StatusCompleted)
	var terr *services.TransitionError
	require.ErrorAs(t, err, &terr)

	// Terminal statuses stay terminal.
	_, err = svc.UpdateStatus(order.ID, models.StatusCancelled)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.ID, models.StatusProcessing)
	require.ErrorAs(t, err, &terr)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, f := newOrderService(t)

	order, err := svc.Place(services.PlaceOrderInput{
		CustomerID: f.customer.ID,
		CanteenID:  f.canteen.ID,
		Lines:      []services.CartLine{{MenuItemID: f.chai.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, models.OrderStatus("SHIPPED"))
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestPlaceFiresOrderCreatedEvent(t *testing.T) {
	svc, f := newOrderService(t)
	t.Cleanup(event.Flush)

	var created []models.Order
	event.Listen(services.EventOrderCreated, func(payload interface{}) {
		if o, ok := payload.(models.Order); ok {
			created = append(created, o)
		}
	})

	order, err := svc.Place(services.PlaceOrderInput{
		CustomerID: f.customer.ID,
		CanteenID:  f.canteen.ID,
		Lines:      []services.CartLine{{MenuItemID: f.samosa.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, order.ID, created[0].ID)
}
