package service

import (
	"context"
	"testing"

	"aegisai/internal/model"
	"aegisai/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestUserService(t *testing.T) (UserService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewUserService(repository.NewUserRepository(db)), db
}

func TestUserService_CreateUser(t *testing.T) {
	svc, db := newTestUserService(t)
	ctx := context.Background()

	res, err := svc.CreateUser(ctx, CreateUserRequest{
		Email:    "nina@aegisai.com",
		Name:     "Nina New",
		Password: "welcome1",
		Role:     string(model.RoleFinance),
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleFinance, res.Role)
	assert.Nil(t, res.LastLogin)

	// Password is stored hashed, never verbatim.
	var stored model.User
	require.NoError(t, db.First(&stored, "email = ?", "nina@aegisai.com").Error)
	assert.NotEqual(t, "welcome1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("welcome1")))
}

func TestUserService_CreateUser_EmailTaken(t *testing.T) {
	svc, db := newTestUserService(t)
	createTestUser(t, db, "nina@aegisai.com", "Nina New", "welcome1", model.RoleFinance)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Email:    "nina@aegisai.com",
		Name:     "Impostor",
		Password: "welcome2",
		Role:     string(model.RoleIT),
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_CreateUser_InvalidRole(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Email:    "nina@aegisai.com",
		Name:     "Nina New",
		Password: "welcome1",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUserService_UpdateUser_RoleOnly(t *testing.T) {
	svc, db := newTestUserService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "ivan@aegisai.com", "Ivan IT", "it123", model.RoleIT)

	res, err := svc.UpdateUser(ctx, user.ID.String(), UpdateUserRequest{Role: string(model.RoleHR)})
	require.NoError(t, err)
	assert.Equal(t, model.RoleHR, res.Role)
	// Identity fields survive the role change.
	assert.Equal(t, "Ivan IT", res.Name)
	assert.Equal(t, "ivan@aegisai.com", res.Email)

	_, err = svc.UpdateUser(ctx, user.ID.String(), UpdateUserRequest{Role: "superuser"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUserService_NotFound(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.GetUserByID(ctx, "2a2e6a21-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateUser(ctx, "2a2e6a21-0000-0000-0000-000000000000", UpdateUserRequest{Role: string(model.RoleIT)})
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.DeleteUser(ctx, "2a2e6a21-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_DeleteUser(t *testing.T) {
	svc, db := newTestUserService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "ivan@aegisai.com", "Ivan IT", "it123", model.RoleIT)

	require.NoError(t, svc.DeleteUser(ctx, user.ID.String()))
	_, err := svc.GetUserByID(ctx, user.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
}
