package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrSignUpNotSupported = errors.New("sign up not supported")
	ErrUserExists         = errors.New("user already registered")
	ErrSessionNotFound    = errors.New("session not found")
	ErrProviderFailure    = errors.New("auth provider failure")
)

// User is the identity attached to a session. Every row a user owns carries ID as user_id.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

//go:generate mockgen -destination=auth_mocks_test.go -package=auth_test github.com/2beens/fittrack/internal/auth Provider,SessionStore

type Provider interface {
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, email, password string) (*User, error)
}
