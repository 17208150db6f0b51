// Package controllers translates HTTP requests into service calls and
// service results into response envelopes.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/campuseats/canteen/app/services"
	"github.com/campuseats/canteen/pkg/logger"
	"github.com/campuseats/canteen/pkg/response"
	"github.com/campuseats/canteen/pkg/router"
)

// paramUint parses a numeric path parameter. Zero means missing or
// malformed.
func paramUint(r *http.Request, name string) uint {
	n, err := strconv.ParseUint(router.Param(r, name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

// queryUint parses an optional numeric query parameter.
func queryUint(r *http.Request, name string) uint {
	n, err := strconv.ParseUint(r.URL.Query().Get(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

// respondServiceError maps service errors onto HTTP statuses. Unknown
// errors are logged and returned as opaque 500s.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	var terr *services.TransitionError
	switch {
	case errors.As(err, &verr):
		response.Error(w, http.StatusBadRequest, verr.Message)
	case errors.As(err, &terr):
		response.Error(w, http.StatusConflict, terr.Error())
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Unauthorized(w)
	case errors.Is(err, services.ErrEmailTaken):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrSignatureInvalid):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrGatewayUnavailable):
		response.Error(w, http.StatusBadGateway, err.Error())
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
