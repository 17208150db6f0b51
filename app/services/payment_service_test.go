package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campuseats/canteen/app/models"
	"github.com/campuseats/canteen/app/services"
	"github.com/campuseats/canteen/pkg/payment"
)

const fakeSecret = "test_secret"

// fakeGateway signs with a known secret and records created orders, so
// tests can mint valid and invalid proofs at will.
type fakeGateway struct {
	nextID  int
	amounts map[string]int64
	fail    bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{amounts: map[string]int64{}}
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, _, _ string, _ map[string]string) (string, error) {
	if g.fail {
		return "", payment.ErrUnavailable
	}
	g.nextID++
	id := fmt.Sprintf("order_fake%d", g.nextID)
	g.amounts[id] = amount
	return id, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return payment.Sign(fakeSecret, orderID, paymentID) == signature
}

func newPaymentService(t *testing.T) (*services.PaymentService, *fakeGateway, fixtures, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	f := seedFixtures(t, db)
	gw := newFakeGateway()
	orders := orderRepo(db)
	cart := services.NewCartService(catalogRepo(db))
	svc := services.NewPaymentService(gw, orders, cart, services.NewOrderService(orders, cart))
	return svc, gw, f, db
}

func TestCreateIntentChargesRecomputedTotalInPaise(t *testing.T) {
	svc, gw, f, db := newPaymentService(t)

	intent, err := svc.CreateIntent(context.Background(), f.customer.ID, f.canteen.ID, []services.CartLine{
		{MenuItemID: f.chai.ID, Quantity: 2},
		{MenuItemID: f.samosa.ID, Quantity: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4675), intent.Amount)
	assert.Equal(t, "INR", intent.Currency)
	assert.Equal(t, int64(4675), gw.amounts[intent.GatewayOrderID])

	// Phase one writes no order.
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateIntentRejectsInvalidCart(t *testing.T) {
	svc, _, f, _ := newPaymentService(t)

	_, err := svc.CreateIntent(context.Background(), f.customer.ID, f.canteen.ID, []services.CartLine{
		{MenuItemID: f.soldOut.ID, Quantity: 1},
	})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateIntentSurfacesGatewayOutage(t *testing.T) {
	svc, gw, f, _ := newPaymentService(t)
	gw.fail = true

	_, err := svc.CreateIntent(context.Background(), f.customer.ID, f.canteen.ID, []services.CartLine{
		{MenuItemID: f.chai.ID, Quantity: 1},
	})
	assert.ErrorIs(t, err, services.ErrGatewayUnavailable)
}

func TestVerifyCommitsOrderOnValidSignature(t *testing.T) {
	svc, _, f, _ := newPaymentService(t)

	lines := []services.CartLine{{MenuItemID: f.chai.ID, Quantity: 2}}
	order, err := svc.Verify(services.VerifyInput{
		CustomerID:     f.customer.ID,
		CanteenID:      f.canteen.ID,
		Lines:          lines,
		DeclaredTotal:  dec("25.00"),
		GatewayOrderID: "order_x1",
		PaymentID:      "pay_x1",
		Signature:      payment.Sign(fakeSecret, "order_x1", "pay_x1"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.True(t, order.TotalPrice.Equal(dec("25.00")))
	assert.Equal(t, "order_x1", order.RazorpayOrderID)
	require.NotNil(t, order.RazorpayPaymentID)
	assert.Equal(t, "pay_x1", *order.RazorpayPaymentID)
}

func TestVerifyRejectsTamperedSignatureWithoutWriting(t *testing.T) {
	svc, _, f, db := newPaymentService(t)

	_, err := svc.Verify(services.VerifyInput{
		CustomerID:     f.customer.ID,
		CanteenID:      f.canteen.ID,
		Lines:          []services.CartLine{{MenuItemID: f.chai.ID, Quantity: 2}},
		DeclaredTotal:  dec("25.00"),
		GatewayOrderID: "order_x1",
		PaymentID:      "pay_x1",
		Signature:      payment.Sign("wrong_secret", "order_x1", "pay_x1"),
	})
	require.ErrorIs(t, err, services.ErrSignatureInvalid)

	var orders, items int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestVerifyRejectsMismatchedDeclaredTotal(t *testing.T) {
	svc, _, f, _ := newPaymentService(t)

	// Client declares the stale pre-price-change total.
	_, err := svc.Verify(services.VerifyInput{
		CustomerID:     f.customer.ID,
		CanteenID:      f.canteen.ID,
		Lines:          []services.CartLine{{MenuItemID: f.chai.ID, Quantity: 2}},
		DeclaredTotal:  dec("20.00"),
		GatewayOrderID: "order_x1",
		PaymentID:      "pay_x1",
		Signature:      payment.Sign(fakeSecret, "order_x1", "pay_x1"),
	})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "total changed")
}

func TestVerifyIsIdempotentPerPaymentID(t *testing.T) {
	svc, _, f, db := newPaymentService(t)

	in := services.VerifyInput{
		CustomerID:     f.customer.ID,
		CanteenID:      f.canteen.ID,
		Lines:          []services.CartLine{{MenuItemID: f.chai.ID, Quantity: 2}},
		DeclaredTotal:  dec("25.00"),
		GatewayOrderID: "order_x1",
		PaymentID:      "pay_x1",
		Signature:      payment.Sign(fakeSecret, "order_x1", "pay_x1"),
	}
	first, err := svc.Verify(in)
	require.NoError(t, err)

	second, err := svc.Verify(in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVerifyReplayStillRequiresValidSignature(t *testing.T) {
	svc, _, f, db := newPaymentService(t)

	in := services.VerifyInput{
		CustomerID:     f.customer.ID,
		CanteenID:      f.canteen.ID,
		Lines:          []services.CartLine{{MenuItemID: f.chai.ID, Quantity: 2}},
		DeclaredTotal:  dec("25.00"),
		GatewayOrderID: "order_x1",
		PaymentID:      "pay_x1",
		Signature:      payment.Sign(fakeSecret, "order_x1", "pay_x1"),
	}
	settled, err := svc.Verify(in)
	require.NoError(t, err)

	// Replaying a settled payment id with a garbage signature must not
	// hand back the committed order, whoever asks.
	tampered := in
	tampered.Signature = "deadbeef"
	tampered.CustomerID = f.customer.ID + 1
	_, err = svc.Verify(tampered)
	require.ErrorIs(t, err, services.ErrSignatureInvalid)

	tampered.CustomerID = f.customer.ID
	_, err = svc.Verify(tampered)
	require.ErrorIs(t, err, services.ErrSignatureInvalid)

	// A correctly signed replay from a different customer is refused too.
	stolen := in
	stolen.CustomerID = f.customer.ID + 1
	_, err = svc.Verify(stolen)
	require.ErrorIs(t, err, services.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, f.customer.ID, settled.CustomerID)
}

func TestVerifyRevalidatesAvailability(t *testing.T) {
	svc, _, f, db := newPaymentService(t)

	// Item sells out between intent and verify.
	f.chai.IsAvailable = false
	require.NoError(t, db.Save(&f.chai).Error)

	_, err := svc.Verify(services.VerifyInput{
		CustomerID:     f.customer.ID,
		CanteenID:      f.canteen.ID,
		Lines:          []services.CartLine{{MenuItemID: f.chai.ID, Quantity: 2}},
		DeclaredTotal:  dec("25.00"),
		GatewayOrderID: "order_x1",
		PaymentID:      "pay_x1",
		Signature:      payment.Sign(fakeSecret, "order_x1", "pay_x1"),
	})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
}
