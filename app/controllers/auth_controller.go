package controllers

import (
	"net/http"

	"github.com/campuseats/canteen/app/services"
	"github.com/campuseats/canteen/pkg/bind"
	"github.com/campuseats/canteen/pkg/middleware"
	"github.com/campuseats/canteen/pkg/response"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type registerRequest struct {
	Name                 string `json:"name" validate:"required,min=2,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Register creates a customer account.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.Register(body.Name, body.Email, body.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Created(w, user)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for access and refresh tokens.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, token, refresh, err := c.auth.Login(body.Email, body.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"user":          user,
		"token":         token,
		"refresh_token": refresh,
	})
}

// Me returns the authenticated user's profile.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	user, err := c.auth.Profile(claims.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.Success(w, user)
}
