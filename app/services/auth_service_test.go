package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuseats/canteen/app/models"
	"github.com/campuseats/canteen/app/repositories"
	"github.com/campuseats/canteen/app/services"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(repositories.NewUserRepository(db))

	user, err := svc.Register("Ravi", "ravi@campus.test", "hunter2secret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEqual(t, "hunter2secret", user.Password)

	logged, token, refresh, err := svc.Login("ravi@campus.test", "hunter2secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, refresh)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(repositories.NewUserRepository(db))

	_, err := svc.Register("Ravi", "ravi@campus.test", "hunter2secret")
	require.NoError(t, err)
	_, err = svc.Register("Other", "ravi@campus.test", "different123")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(repositories.NewUserRepository(db))

	_, err := svc.Register("Ravi", "ravi@campus.test", "hunter2secret")
	require.NoError(t, err)

	_, _, _, err = svc.Login("ravi@campus.test", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, _, _, err = svc.Login("nobody@campus.test", "hunter2secret")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}
