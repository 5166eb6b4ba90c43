package services

import (
	"context"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AccountList is the linked accounts plus the one to preselect.
type AccountList struct {
	Accounts          []domain.BankAccount
	SelectedAccountID string
}

// LinkService sequences bank linking against the aggregation service.
type LinkService struct {
	repo   ports.UserRepository
	agg    ports.AggregationPort
	events ports.EventBus
	log    zerolog.Logger
}

func NewLinkService(
	repo ports.UserRepository,
	agg ports.AggregationPort,
	events ports.EventBus,
	baseLogger *zerolog.Logger,
) *LinkService {
	return &LinkService{
		repo:   repo,
		agg:    agg,
		events: events,
		log:    baseLogger.With().Str("component", "link_service").Logger(),
	}
}

// ClientUserID is stable per email so the aggregation service sees one end
// user across sessions. Without an email a random id is used.
func ClientUserID(email string) string {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return uuid.NewString()
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
}

// CreateLinkSession returns a link token for one linking attempt.
func (s *LinkService) CreateLinkSession(ctx context.Context, email string) (string, error) {
	token, err := s.agg.CreateLinkSession(ctx, ClientUserID(email))
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create link token")
		return "", err
	}
	return token, nil
}

// ExchangeToken trades the public token and stores the durable access token.
// The user must exist first so a public token is never burned for nobody.
func (s *LinkService) ExchangeToken(ctx context.Context, email, publicToken string) (*ports.ExchangeResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("Email is required")
	}
	if publicToken == "" {
		return nil, domain.NewValidationError("public_token is required")
	}
	log := s.log.With().Str("email", email).Logger()

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User not found")
	}

	res, err := s.agg.ExchangeSession(ctx, publicToken)
	if err != nil {
		log.Error().Err(err).Msg("Failed to exchange public token")
		return nil, err
	}

	if _, err := s.repo.SetAccessToken(ctx, email, res.AccessToken); err != nil {
		log.Error().Err(err).Str("item_id", res.ItemID).Msg("Failed to store access token")
		return nil, err
	}

	log.Info().Str("item_id", res.ItemID).Msg("Bank linked")
	s.publish(ctx, domain.TopicBankLinked, domain.BankLinkedEvent{Email: email, ItemID: res.ItemID})
	return res, nil
}

// ListAccounts returns the user's depository accounts and the preselection:
// the stored choice if still present, else the first account.
func (s *LinkService) ListAccounts(ctx context.Context, email string) (*AccountList, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("Email is required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.HasBankLinked() {
		return nil, domain.NewNotFoundError("No bank linked")
	}

	accounts, err := s.agg.ListAccounts(ctx, *user.PlaidAccessToken)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("Failed to list accounts")
		return nil, err
	}

	list := &AccountList{Accounts: accounts}
	stored := ""
	if user.SelectedAccountID != nil {
		stored = *user.SelectedAccountID
	}
	if picked, ok := domain.PickAccount(accounts, stored); ok {
		list.SelectedAccountID = picked.ID
	}
	return list, nil
}

func (s *LinkService) publish(ctx context.Context, topic string, data interface{}) {
	if err := s.events.Publish(ctx, topic, data); err != nil {
		s.log.Warn().Err(err).Str("topic", topic).Msg("Failed to publish event")
	}
}
