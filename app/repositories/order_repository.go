package repositories

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campuseats/canteen/app/models"
)

// OrderRepository handles database operations for orders.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateWithItems inserts an order and its line items in a single
// transaction. Either everything commits or nothing does.
func (r *OrderRepository) CreateWithItems(order *models.Order, items []models.OrderItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		order.Items = items
		return nil
	})
}

// FindByID loads an order with its items.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, id).Error
	return order, err
}

// FindByRazorpayPaymentID looks up the order settled by a gateway
// payment, if any.
func (r *OrderRepository) FindByRazorpayPaymentID(paymentID string) (models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Where("razorpay_payment_id = ?", paymentID).First(&order).Error
	return order, err
}

// ForCustomer returns a customer's orders, newest first.
func (r *OrderRepository) ForCustomer(customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// All returns orders across customers, newest first, optionally filtered
// by status and canteen.
func (r *OrderRepository) All(status models.OrderStatus, canteenID uint) ([]models.Order, error) {
	q := r.db.Preload("Items").Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if canteenID != 0 {
		q = q.Where("canteen_id = ?", canteenID)
	}
	var orders []models.Order
	err := q.Find(&orders).Error
	return orders, err
}

// UpdateStatus moves an order to the given status.
func (r *OrderRepository) UpdateStatus(order *models.Order, status models.OrderStatus) error {
	order.Status = status
	return r.db.Model(order).Update("status", status).Error
}

// CountSince counts orders created at or after t.
func (r *OrderRepository) CountSince(t time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&models.Order{}).Where("created_at >= ?", t).Count(&n).Error
	return n, err
}

// CountBetween counts orders created in [from, to).
func (r *OrderRepository) CountBetween(from, to time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&n).Error
	return n, err
}

// CountByStatus counts orders currently in the given status.
func (r *OrderRepository) CountByStatus(status models.OrderStatus) (int64, error) {
	var n int64
	err := r.db.Model(&models.Order{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// RevenueBetween sums the totals of fulfilled orders created in
// [from, to). Only READY and COMPLETED orders count toward revenue.
func (r *OrderRepository) RevenueBetween(from, to time.Time) (decimal.Decimal, error) {
	var orders []models.Order
	err := r.db.Select("total_price").
		Where("created_at >= ? AND created_at < ?", from, to).
		Where("status IN ?", []models.OrderStatus{models.StatusReady, models.StatusCompleted}).
		Find(&orders).Error
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalPrice)
	}
	return total, nil
}

// CreatedBetween returns orders created in [from, to) without items,
// for aggregate reporting.
func (r *OrderRepository) CreatedBetween(from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("created_at >= ? AND created_at < ?", from, to).Find(&orders).Error
	return orders, err
}
