package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/campuseats/canteen/app/models"
	"github.com/campuseats/canteen/app/repositories"
	"github.com/campuseats/canteen/pkg/event"
	"github.com/campuseats/canteen/pkg/metrics"
)

// Event names fired by the order services.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// StatusChange is the payload of EventOrderStatusChanged.
type StatusChange struct {
	Order models.Order
	From  models.OrderStatus
	To    models.OrderStatus
}

// PlaceOrderInput is a direct (non-gateway) order request.
type PlaceOrderInput struct {
	CustomerID  uint
	CanteenID   uint
	Lines       []CartLine
	Notes       string
	TableNumber string
}

// OrderService commits orders and drives their status lifecycle.
type OrderService struct {
	orders *repositories.OrderRepository
	cart   *CartService
}

func NewOrderService(orders *repositories.OrderRepository, cart *CartService) *OrderService {
	return &OrderService{orders: orders, cart: cart}
}

// Place validates and prices the cart, then commits the order and its
// line items atomically. The order starts in PENDING with the total
// computed from catalog prices.
func (s *OrderService) Place(in PlaceOrderInput) (models.Order, error) {
	cart, err := s.cart.Price(in.CanteenID, in.Lines)
	if err != nil {
		return models.Order{}, err
	}
	order, err := s.commit(cart, in.CustomerID, in.Notes, in.TableNumber, "", nil)
	if err != nil {
		return models.Order{}, err
	}
	metrics.OrdersCreated.WithLabelValues("direct").Inc()
	return order, nil
}

// commit writes the order and its price-frozen line items in one
// transaction and fires EventOrderCreated.
func (s *OrderService) commit(cart *PricedCart, customerID uint, notes, tableNumber, razorpayOrderID string, razorpayPaymentID *string) (models.Order, error) {
	order := models.Order{
		CustomerID:        customerID,
		CanteenID:         cart.CanteenID,
		Status:            models.StatusPending,
		TotalPrice:        cart.Total,
		Notes:             notes,
		TableNumber:       tableNumber,
		RazorpayOrderID:   razorpayOrderID,
		RazorpayPaymentID: razorpayPaymentID,
	}
	items := make([]models.OrderItem, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		items = append(items, models.OrderItem{
			MenuItemID: l.Item.ID,
			Quantity:   l.Quantity,
			Price:      l.Price,
		})
	}
	if err := s.orders.CreateWithItems(&order, items); err != nil {
		return models.Order{}, err
	}
	event.Fire(EventOrderCreated, order)
	return order, nil
}

// Find loads one order. Customers may only see their own; staff passes
// customerID 0 to skip the ownership check.
func (s *OrderService) Find(id, customerID uint) (models.Order, error) {
	order, err := s.orders.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	if customerID != 0 && order.CustomerID != customerID {
		return models.Order{}, ErrNotFound
	}
	return order, nil
}

// ForCustomer lists a customer's orders, newest first.
func (s *OrderService) ForCustomer(customerID uint) ([]models.Order, error) {
	return s.orders.ForCustomer(customerID)
}

// All lists orders for staff, optionally filtered by status and canteen.
func (s *OrderService) All(status models.OrderStatus, canteenID uint) ([]models.Order, error) {
	if status != "" && !models.ValidStatus(status) {
		return nil, validationErrorf("unknown order status %q", status)
	}
	return s.orders.All(status, canteenID)
}

// UpdateStatus moves an order along its lifecycle. Illegal moves,
// including any move out of a terminal status, return a TransitionError.
func (s *OrderService) UpdateStatus(id uint, to models.OrderStatus) (models.Order, error) {
	if !models.ValidStatus(to) {
		return models.Order{}, validationErrorf("unknown order status %q", to)
	}
	order, err := s.orders.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	from := order.Status
	if !models.CanTransition(from, to) {
		return models.Order{}, &TransitionError{From: string(from), To: string(to)}
	}
	if err := s.orders.UpdateStatus(&order, to); err != nil {
		return models.Order{}, err
	}
	metrics.StatusTransitions.WithLabelValues(string(from), string(to)).Inc()
	event.Fire(EventOrderStatusChanged, StatusChange{Order: order, From: from, To: to})
	return order, nil
}
