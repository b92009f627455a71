package service

import "errors"

// Sentinel errors for the service layer. Handlers map these to HTTP status
// codes; anything else is treated as a backend failure (500) and is never
// retried here.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrConversationBusy   = errors.New("a turn is already in flight for this conversation")
)
