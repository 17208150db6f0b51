package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campuseats/canteen/app/models"
	"github.com/campuseats/canteen/app/repositories"
	"github.com/campuseats/canteen/pkg/metrics"
	"github.com/campuseats/canteen/pkg/payment"
)

// PaymentIntent is returned to the client after phase one. The client
// hands it to the gateway checkout; no order exists yet.
type PaymentIntent struct {
	GatewayOrderID string          `json:"razorpay_order_id"`
	Amount         int64           `json:"amount"`
	Currency       string          `json:"currency"`
	Total          decimal.Decimal `json:"total"`
}

// VerifyInput is the phase-two request. Lines and the declared total are
// re-validated server side; signature fields come from the gateway
// checkout callback.
type VerifyInput struct {
	CustomerID     uint
	CanteenID      uint
	Lines          []CartLine
	DeclaredTotal  decimal.Decimal
	Notes          string
	TableNumber    string
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

// PaymentService runs the two-phase gateway flow: create an intent for
// the priced cart, then verify the gateway signature and commit.
type PaymentService struct {
	gateway payment.Gateway
	orders  *repositories.OrderRepository
	cart    *CartService
	order   *OrderService
}

func NewPaymentService(gateway payment.Gateway, orders *repositories.OrderRepository, cart *CartService, order *OrderService) *PaymentService {
	return &PaymentService{gateway: gateway, orders: orders, cart: cart, order: order}
}

// CreateIntent prices the cart and registers the amount with the
// gateway. Nothing is written to the database.
func (s *PaymentService) CreateIntent(ctx context.Context, customerID, canteenID uint, lines []CartLine) (*PaymentIntent, error) {
	cart, err := s.cart.Price(canteenID, lines)
	if err != nil {
		return nil, err
	}

	// Gateway amounts are integer paise.
	amount := cart.Total.Shift(2).IntPart()
	receipt := fmt.Sprintf("rcpt_%d_%d", customerID, time.Now().UnixNano())
	gatewayOrderID, err := s.gateway.CreateOrder(ctx, amount, "INR", receipt, map[string]string{
		"customer_id": fmt.Sprintf("%d", customerID),
	})
	if err != nil {
		metrics.PaymentIntents.WithLabelValues("error").Inc()
		if errors.Is(err, payment.ErrUnavailable) {
			return nil, ErrGatewayUnavailable
		}
		return nil, err
	}
	metrics.PaymentIntents.WithLabelValues("ok").Inc()

	return &PaymentIntent{
		GatewayOrderID: gatewayOrderID,
		Amount:         amount,
		Currency:       "INR",
		Total:          cart.Total,
	}, nil
}

// Verify checks the gateway signature and, only if it holds, commits the
// order. The cart is validated and priced again from the live catalog;
// the client-declared total must match the recomputed one exactly.
//
// A payment id settles at most one order. Replaying a verified payment
// with a valid signature returns the already committed order instead of
// creating a second one; the signature is checked before the duplicate
// lookup, so a tampered replay never learns whether the payment exists.
func (s *PaymentService) Verify(in VerifyInput) (models.Order, error) {
	if !s.gateway.VerifySignature(in.GatewayOrderID, in.PaymentID, in.Signature) {
		metrics.PaymentVerifications.WithLabelValues("invalid_signature").Inc()
		return models.Order{}, ErrSignatureInvalid
	}

	existing, err := s.orders.FindByRazorpayPaymentID(in.PaymentID)
	if err == nil {
		if existing.CustomerID != in.CustomerID {
			return models.Order{}, ErrNotFound
		}
		metrics.PaymentVerifications.WithLabelValues("ok").Inc()
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, err
	}

	cart, err := s.cart.Price(in.CanteenID, in.Lines)
	if err != nil {
		metrics.PaymentVerifications.WithLabelValues("error").Inc()
		return models.Order{}, err
	}
	if !cart.Total.Equal(in.DeclaredTotal) {
		metrics.PaymentVerifications.WithLabelValues("error").Inc()
		return models.Order{}, validationErrorf(
			"order total changed: expected %s, got %s", cart.Total.StringFixed(2), in.DeclaredTotal.StringFixed(2))
	}

	paymentID := in.PaymentID
	order, err := s.order.commit(cart, in.CustomerID, in.Notes, in.TableNumber, in.GatewayOrderID, &paymentID)
	if err != nil {
		// A concurrent verify for the same payment may have won the
		// unique index race; surface its order.
		if dup, dupErr := s.orders.FindByRazorpayPaymentID(in.PaymentID); dupErr == nil && dup.CustomerID == in.CustomerID {
			metrics.PaymentVerifications.WithLabelValues("ok").Inc()
			return dup, nil
		}
		metrics.PaymentVerifications.WithLabelValues("error").Inc()
		return models.Order{}, err
	}
	metrics.PaymentVerifications.WithLabelValues("ok").Inc()
	metrics.OrdersCreated.WithLabelValues("gateway").Inc()
	return order, nil
}
