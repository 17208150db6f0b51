package controllers

import (
	"net/http"

	"github.com/campuseats/canteen/app/services"
	"github.com/campuseats/canteen/pkg/response"
)

type DashboardController struct {
	dashboard *services.DashboardService
}

func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

// Stats returns the admin overview aggregates.
func (c *DashboardController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.dashboard.Stats()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, stats)
}
