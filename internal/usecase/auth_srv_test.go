package usecase

import (
	"context"
	"testing"
	"time"

	"pitch-booking/internal/data/entity"
	"pitch-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_RegisterLoginLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Auth.Register(ctx, &request.RegisterRequest{
		Username: "keeper",
		Email:    "Keeper@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "keeper@example.com", reg.Email)
	assert.Equal(t, entity.RoleCustomer, reg.Role)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, f.now.Add(24*time.Hour), reg.ExpiresAt)

	_, err = f.svc.Auth.Register(ctx, &request.RegisterRequest{
		Username: "other", Email: "keeper@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.Auth.Register(ctx, &request.RegisterRequest{
		Username: "keeper", Email: "new@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.Auth.Login(ctx, &request.LoginRequest{Username: "keeper", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	login, err := f.svc.Auth.Login(ctx, &request.LoginRequest{Username: "KEEPER@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, login.UserID)

	require.NoError(t, f.svc.Auth.Logout(ctx, login.Token))
	assert.ErrorIs(t, f.svc.Auth.Logout(ctx, login.Token), ErrUnauthorized)
	assert.ErrorIs(t, f.svc.Auth.Logout(ctx, "not-a-token"), ErrInvalidInput)
}

func TestAuth_InactiveUserCannotLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Auth.Register(ctx, &request.RegisterRequest{
		Username: "benched", Email: "benched@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	f.store.users[uuid.MustParse(reg.UserID)].IsActive = false

	_, err = f.svc.Auth.Login(ctx, &request.LoginRequest{Username: "benched", Password: "secret123"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUser_AdminOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.addUser(entity.RoleAdmin)
	customer := f.addUser(entity.RoleCustomer)

	profile, err := f.svc.User.GetProfile(ctx, customer.UserID)
	require.NoError(t, err)
	assert.Equal(t, customer.UserID.String(), profile.ID)

	_, err = f.svc.User.GetAllUsers(ctx, customer, request.PaginatedRequest{})
	assert.ErrorIs(t, err, ErrForbidden)

	all, err := f.svc.User.GetAllUsers(ctx, admin, request.PaginatedRequest{Page: 1, PerPage: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Pagination.Total)
	assert.Equal(t, 2, all.Pagination.TotalPages)
	assert.Len(t, all.Data, 1)

	assert.ErrorIs(t, f.svc.User.DeleteUser(ctx, admin, admin.UserID), ErrInvalidInput)
	require.NoError(t, f.svc.User.DeleteUser(ctx, admin, customer.UserID))
	assert.False(t, f.store.users[customer.UserID].IsActive)

	_, err = f.svc.User.GetProfile(ctx, customer.UserID)
	assert.ErrorIs(t, err, ErrNotFound)
}
