// Package handler exposes the HTTP surface over gin. Handlers bind requests,
// delegate to services, and translate sentinel errors into status codes; no
// business rules live here.
package handler

import (
	"errors"
	"net/http"

	"aegisai/internal/service"
)

// statusFor maps service sentinel errors onto HTTP status codes. Anything
// unrecognized is a backend failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConversationBusy):
		return http.StatusConflict
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
