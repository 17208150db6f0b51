package controllers

import (
	"net/http"

	"github.com/campuseats/canteen/app/models"
	"github.com/campuseats/canteen/app/services"
	"github.com/campuseats/canteen/pkg/bind"
	"github.com/campuseats/canteen/pkg/middleware"
	"github.com/campuseats/canteen/pkg/response"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

type placeOrderRequest struct {
	Canteen     uint                `json:"canteen" validate:"required"`
	Items       []services.CartLine `json:"items" validate:"required"`
	Notes       string              `json:"notes" validate:"nullable,max=500"`
	TableNumber string              `json:"table_number" validate:"nullable,max=20"`
}

// Place commits a direct (pay at counter) order for the authenticated
// customer.
func (c *OrderController) Place(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	var body placeOrderRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.Place(services.PlaceOrderInput{
		CustomerID:  claims.UserID,
		CanteenID:   body.Canteen,
		Lines:       body.Items,
		Notes:       body.Notes,
		TableNumber: body.TableNumber,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Created(w, order)
}

// List returns the authenticated customer's orders, newest first.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	orders, err := c.orders.ForCustomer(claims.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, orders)
}

// Show returns one of the authenticated customer's orders.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	order, err := c.orders.Find(paramUint(r, "id"), claims.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, order)
}

// AdminList returns all orders, filterable by status and canteen_id.
func (c *OrderController) AdminList(w http.ResponseWriter, r *http.Request) {
	status := models.OrderStatus(r.URL.Query().Get("status"))
	orders, err := c.orders.All(status, queryUint(r, "canteen_id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, orders)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,in=PENDING,PROCESSING,READY,COMPLETED,CANCELLED"`
}

// UpdateStatus moves an order along its lifecycle.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body updateStatusRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}
	order, err := c.orders.UpdateStatus(paramUint(r, "id"), models.OrderStatus(body.Status))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, order)
}
