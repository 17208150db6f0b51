package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/campuseats/canteen/app/services"
	"github.com/campuseats/canteen/pkg/bind"
	"github.com/campuseats/canteen/pkg/middleware"
	"github.com/campuseats/canteen/pkg/response"
)

type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

type createIntentRequest struct {
	Canteen uint                `json:"canteen" validate:"required"`
	Items   []services.CartLine `json:"items" validate:"required"`
}

// CreateIntent prices the cart and opens a gateway order for it. No
// database order exists until Verify succeeds.
func (c *PaymentController) CreateIntent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	var body createIntentRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	intent, err := c.payments.CreateIntent(r.Context(), claims.UserID, body.Canteen, body.Items)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, intent)
}

type verifyRequest struct {
	Canteen           uint                `json:"canteen" validate:"required"`
	Items             []services.CartLine `json:"items" validate:"required"`
	Total             decimal.Decimal     `json:"total"`
	Notes             string              `json:"notes" validate:"nullable,max=500"`
	TableNumber       string              `json:"table_number" validate:"nullable,max=20"`
	RazorpayOrderID   string              `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string              `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string              `json:"razorpay_signature" validate:"required"`
}

// Verify checks the gateway signature and commits the order.
func (c *PaymentController) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	var body verifyRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}
	order, err := c.payments.Verify(services.VerifyInput{
		CustomerID:     claims.UserID,
		CanteenID:      body.Canteen,
		Lines:          body.Items,
		DeclaredTotal:  body.Total,
		Notes:          body.Notes,
		TableNumber:    body.TableNumber,
		GatewayOrderID: body.RazorpayOrderID,
		PaymentID:      body.RazorpayPaymentID,
		Signature:      body.RazorpaySignature,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Created(w, order)
}
