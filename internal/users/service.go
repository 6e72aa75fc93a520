package users

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/suPer8Hu/gopherchat/internal/auth"
	"github.com/suPer8Hu/gopherchat/internal/models"
	"github.com/suPer8Hu/gopherchat/internal/store/rabbitmq"
)

type Service struct {
	repo   *Repo
	events *rabbitmq.Publisher
}

func NewService(repo *Repo, events *rabbitmq.Publisher) *Service {
	return &Service{repo: repo, events: events}
}

// Signup hashes the password and persists a new user with an empty chat
// history. The email uniqueness check races with the unique index; the index
// is the backstop, the pre-check gives the clean 409.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	taken, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("signup %q: %w", email, err)
	}
	if taken {
		return nil, fmt.Errorf("signup %q: %w", email, ErrEmailTaken)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("signup %q: hash password: %w", email, err)
	}

	u := &models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("signup %q: %w", email, err)
	}

	s.events.Publish(ctx, rabbitmq.EventUserSignup, u.ID)

	log.Info().Uint64("user_id", u.ID).Msg("user registered")
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("login %q: %w", email, ErrNotRegistered)
		}
		return nil, fmt.Errorf("login %q: %w", email, err)
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, fmt.Errorf("login %q: %w", email, ErrIncorrectPassword)
	}

	s.events.Publish(ctx, rabbitmq.EventUserLogin, u.ID)

	return u, nil
}

// GetByID re-resolves a token's user. The middleware only validates the
// token; the referenced user may have vanished since issuance, and callers
// must treat ErrUserNotFound as an authentication failure.
func (s *Service) GetByID(ctx context.Context, id uint64) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("resolve user %d: %w", id, ErrUserNotFound)
		}
		return nil, fmt.Errorf("resolve user %d: %w", id, err)
	}
	return u, nil
}
