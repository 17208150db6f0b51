package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/campuseats/canteen/app/models"
	"github.com/campuseats/canteen/app/repositories"
	"github.com/campuseats/canteen/pkg/auth"
)

// AuthService registers accounts and issues tokens.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a customer account with a hashed password.
func (s *AuthService) Register(name, email, password string) (models.User, error) {
	if _, err := s.users.FindByEmail(email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleCustomer,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login checks credentials and returns access and refresh tokens.
func (s *AuthService) Login(email, password string) (models.User, string, string, error) {
	user, err := s.users.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, "", "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", "", err
	}
	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, "", "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return models.User{}, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return models.User{}, "", "", err
	}
	return user, token, refresh, nil
}

// Profile loads the account for the given user id.
func (s *AuthService) Profile(userID uint) (models.User, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	return user, err
}
