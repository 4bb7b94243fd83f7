package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fittrack/internal/auth"
)

//go:generate mockgen -source=$GOFILE -destination=profiles_mocks_test.go -package=profiles_test

type profilesRepo interface {
	Get(ctx context.Context, id string) (*Profile, error)
	Upsert(ctx context.Context, p Profile) (*Profile, error)
}

type Service struct {
	repo profilesRepo
}

func NewService(repo profilesRepo) *Service {
	return &Service{
		repo: repo,
	}
}

// Get returns the stored profile, or the defaults when the user has none yet.
func (s *Service) Get(ctx context.Context, user *auth.User) (*Profile, error) {
	stored, err := s.repo.Get(ctx, user.ID)
	if errors.Is(err, ErrProfileNotFound) {
		p := Default(user.ID, user.Email)
		return &p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	p := stored.WithDefaults()
	return &p, nil
}

// Save validates the form and creates or replaces the user's profile.
func (s *Service) Save(ctx context.Context, user *auth.User, form Form) (*Profile, error) {
	profile, err := form.Validate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return s.repo.Upsert(ctx, *profile)
}
