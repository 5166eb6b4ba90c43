package services

import (
	"context"
	"errors"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/ports"

	"github.com/rs/zerolog"
)

// UserService owns the lifecycle of user linkage records.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, baseLogger *zerolog.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  baseLogger.With().Str("component", "user_service").Logger(),
	}
}

// Get returns a NotFoundError for an unknown email.
func (s *UserService) Get(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("Email is required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User not found")
	}
	return user, nil
}

// GetOrCreate is idempotent. A concurrent insert that loses the race on the
// unique email surfaces as ErrUserExists and is answered with a re-fetch.
func (s *UserService) GetOrCreate(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("Email is required")
	}
	log := s.log.With().Str("email", email).Logger()

	// 1. Fast path
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	// 2. Insert
	user = &domain.User{Email: email}
	err = s.repo.Create(ctx, user)
	if err == nil {
		log.Info().Str("user_id", user.ID.String()).Msg("Created user")
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserExists) {
		log.Error().Err(err).Msg("Failed to create user")
		return nil, err
	}

	// 3. Lost the race, read the winner's row
	log.Info().Msg("User created concurrently, re-fetching")
	user, err = s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user vanished after uniqueness violation")
	}
	return user, nil
}

// Update applies exactly one UserUpdate variant.
func (s *UserService) Update(ctx context.Context, email string, update domain.UserUpdate) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("Email is required")
	}

	var (
		user *domain.User
		err  error
	)
	switch u := update.(type) {
	case domain.ClearLink:
		user, err = s.repo.ClearLink(ctx, email)
	case domain.SetAccessToken:
		user, err = s.repo.SetAccessToken(ctx, email, u.Token)
	case domain.SetSelectedAccount:
		user, err = s.repo.SetSelectedAccount(ctx, email, u.AccountID)
	default:
		return nil, domain.NewValidationError("No update data provided")
	}

	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.NewNotFoundError("User not found")
	}
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Str("update", updateName(update)).Msg("Failed to update user")
		return nil, err
	}
	s.log.Info().Str("email", email).Str("update", updateName(update)).Msg("User updated")
	return user, nil
}

func updateName(u domain.UserUpdate) string {
	switch u.(type) {
	case domain.ClearLink:
		return "clear_link"
	case domain.SetAccessToken:
		return "set_access_token"
	case domain.SetSelectedAccount:
		return "set_selected_account"
	}
	return "unknown"
}
