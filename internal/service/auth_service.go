package service

import (
	"context"
	"errors"
	"time"

	"aegisai/internal/model"
	"aegisai/internal/policy"
	"aegisai/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for Request validation
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse returns User data without exposing the password hash
type UserResponse struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Role      model.UserRole `json:"role"`
	CreatedAt time.Time      `json:"createdAt"`
	LastLogin *time.Time     `json:"lastLogin,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Session is the derived authentication state for one credential token.
// It is never persisted; it is recomputed from the token on every restore.
type Session struct {
	User            *UserResponse `json:"user"`
	IsAuthenticated bool          `json:"isAuthenticated"`
}

// AuthService owns all credential state: password hashes, the signing
// secret, and token issuance. No other component reads or writes them.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Restore(ctx context.Context, token string) (Session, error)
	Logout(ctx context.Context, token string)
	HasRole(user *UserResponse, roles ...model.UserRole) bool
}

type authService struct {
	users    repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(users repository.UserRepository, secret []byte) AuthService {
	return &authService{
		users:    users,
		secret:   secret,
		tokenTTL: 24 * time.Hour,
	}
}

func mapUserToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	}
}

// Login validates credentials against the identity backend, refreshes
// lastLogin and issues a signed token. Unknown email and password mismatch
// are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   now.Add(s.tokenTTL).Unix(),
		"iat":   now.Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Token: tokenString, User: *mapUserToResponse(user)}, nil
}

// Restore resolves a persisted credential token to a session. A missing,
// malformed or expired token degrades to the anonymous session without
// error; only a backend failure while resolving a valid token propagates.
func (s *authService) Restore(ctx context.Context, token string) (Session, error) {
	anonymous := Session{User: nil, IsAuthenticated: false}

	if token == "" {
		return anonymous, nil
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return anonymous, nil
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return anonymous, nil
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return anonymous, nil
	}

	user, err := s.users.GetByID(ctx, sub)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Token refers to a user that no longer exists.
			return anonymous, nil
		}
		return anonymous, err
	}

	return Session{User: mapUserToResponse(user), IsAuthenticated: true}, nil
}

// Logout invalidates the session locally. Tokens are stateless, so there is
// nothing to revoke server-side; the handler clears the persisted cookie.
func (s *authService) Logout(ctx context.Context, token string) {}

// HasRole reports whether a user is present and their role is in the set.
func (s *authService) HasRole(user *UserResponse, roles ...model.UserRole) bool {
	if user == nil {
		return false
	}
	return policy.IsAllowed(user.Role, roles)
}
