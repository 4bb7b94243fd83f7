package auth

import (
	"context"
	"strings"

	"github.com/2beens/fittrack/pkg"
)

var _ Provider = (*LocalProvider)(nil)

type LocalUser struct {
	ID           string
	Email        string
	PasswordHash string
}

// LocalProvider authenticates against a fixed set of users with bcrypt password hashes.
type LocalProvider struct {
	usersByEmail map[string]LocalUser
}

func NewLocalProvider(users []LocalUser) *LocalProvider {
	byEmail := make(map[string]LocalUser, len(users))
	for _, u := range users {
		byEmail[strings.ToLower(u.Email)] = u
	}
	return &LocalProvider{usersByEmail: byEmail}
}

func (p *LocalProvider) SignIn(_ context.Context, email, password string) (*User, error) {
	u, ok := p.usersByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		// still burn a compare so unknown emails take as long as wrong passwords
		pkg.CheckPasswordHash(password, dummyHash)
		return nil, ErrInvalidCredentials
	}
	if !pkg.CheckPasswordHash(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &User{ID: u.ID, Email: u.Email}, nil
}

func (p *LocalProvider) SignUp(context.Context, string, string) (*User, error) {
	return nil, ErrSignUpNotSupported
}

// any valid bcrypt hash works here, the result is discarded
const dummyHash = "$2a$14$6Gmhg85si2etd3K9oB8nYu1cxfbrdmhkg6wI6OXsa88IF4L2r/L9i"
