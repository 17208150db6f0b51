package models_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/campuseats/canteen/app/models"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to models.OrderStatus }{
		{models.StatusPending, models.StatusProcessing},
		{models.StatusPending, models.StatusCancelled},
		{models.StatusProcessing, models.StatusReady},
		{models.StatusProcessing, models.StatusCancelled},
		{models.StatusReady, models.StatusCompleted},
	}
	for _, tc := range allowed {
		if !models.CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s → %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to models.OrderStatus }{
		{models.StatusPending, models.StatusReady},
		{models.StatusPending, models.StatusCompleted},
		{models.StatusReady, models.StatusCancelled},
		{models.StatusCompleted, models.StatusPending},
		{models.StatusCancelled, models.StatusProcessing},
		{models.StatusProcessing, models.StatusPending},
	}
	for _, tc := range denied {
		if models.CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s → %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestValidStatus(t *testing.T) {
	if !models.ValidStatus(models.StatusReady) {
		t.Error("READY should be a valid status")
	}
	if models.ValidStatus("SHIPPED") {
		t.Error("SHIPPED is not a valid status")
	}
}

func TestOrderItemLineTotal(t *testing.T) {
	item := models.OrderItem{
		Quantity: 3,
		Price:    decimal.RequireFromString("7.25"),
	}
	if got := item.LineTotal(); !got.Equal(decimal.RequireFromString("21.75")) {
		t.Errorf("expected 21.75, got %s", got)
	}
}
