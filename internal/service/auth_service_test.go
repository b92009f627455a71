package service

import (
	"context"
	"testing"

	"aegisai/internal/database"
	"aegisai/internal/model"
	"aegisai/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-for-testing-only")

func newTestAuthService(t *testing.T) (AuthService, repository.UserRepository) {
	t.Helper()
	db := setupTestDB(t)
	require.NoError(t, database.Seed(db))
	repo := repository.NewUserRepository(db)
	return NewAuthService(repo, testSecret), repo
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, LoginRequest{Email: "admin@aegisai.com", Password: "admin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, model.RoleAdmin, res.User.Role)
	assert.Equal(t, "Alex Admin", res.User.Name)
	assert.NotNil(t, res.User.LastLogin, "login must refresh lastLogin")
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	before, err := repo.GetByEmail(ctx, "admin@aegisai.com")
	require.NoError(t, err)

	res, err := svc.Login(ctx, LoginRequest{Email: "admin@aegisai.com", Password: "wrong"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Stored credential state is untouched by a failed attempt.
	after, err := repo.GetByEmail(ctx, "admin@aegisai.com")
	require.NoError(t, err)
	assert.Equal(t, before.Password, after.Password)
	assert.Equal(t, before.LastLogin, after.LastLogin)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@aegisai.com", Password: "admin123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Restore_ValidToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, LoginRequest{Email: "sarah@aegisai.com", Password: "security123"})
	require.NoError(t, err)

	session, err := svc.Restore(ctx, res.Token)
	require.NoError(t, err)
	assert.True(t, session.IsAuthenticated)
	require.NotNil(t, session.User)
	assert.Equal(t, model.RoleSecurity, session.User.Role)
}

func TestAuthService_Restore_MalformedToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	for _, token := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.not-base64.sig"} {
		session, err := svc.Restore(ctx, token)
		require.NoError(t, err, "malformed token %q must degrade, not error", token)
		assert.False(t, session.IsAuthenticated)
		assert.Nil(t, session.User)
	}
}

func TestAuthService_Restore_DeletedUser(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, LoginRequest{Email: "tina@aegisai.com", Password: "it123"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, res.User.ID))

	session, err := svc.Restore(ctx, res.Token)
	require.NoError(t, err)
	assert.False(t, session.IsAuthenticated)
}

func TestAuthService_HasRole(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user := &UserResponse{Role: model.RoleHR}
	assert.True(t, svc.HasRole(user, model.RoleHR))
	assert.True(t, svc.HasRole(user, model.RoleAdmin, model.RoleHR))
	assert.False(t, svc.HasRole(user, model.RoleAdmin, model.RoleSecurity))
	assert.False(t, svc.HasRole(nil, model.RoleAdmin), "absent user never has a role")
}
