package services

import (
	"context"
	"fmt"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/ports"

	"github.com/rs/zerolog"
)

// PaymentOptions are the tunables of payment history.
type PaymentOptions struct {
	HistoryLimit     int
	HistoryMinAmount int64 // Minor units
}

// PaymentService runs the bank debit sequence, card intents and history.
type PaymentService struct {
	users  *UserService
	repo   ports.UserRepository
	agg    ports.AggregationPort
	proc   ports.ProcessorPort
	events ports.EventBus
	opts   PaymentOptions
	log    zerolog.Logger
}

func NewPaymentService(
	users *UserService,
	repo ports.UserRepository,
	agg ports.AggregationPort,
	proc ports.ProcessorPort,
	events ports.EventBus,
	opts PaymentOptions,
	baseLogger *zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		users:  users,
		repo:   repo,
		agg:    agg,
		proc:   proc,
		events: events,
		opts:   opts,
		log:    baseLogger.With().Str("component", "payment_service").Logger(),
	}
}

// CreateBankPayment debits a linked bank account. The steps run in order and
// the first failure aborts the rest; nothing is rolled back. A source
// attached before a failed charge is reused on the next attempt.
func (s *PaymentService) CreateBankPayment(ctx context.Context, req domain.BankPaymentRequest) (*domain.PaymentResult, error) {
	if err := domain.ValidatePayment(req.Email, req.Amount); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(req.Email)
	log := s.log.With().Str("email", email).Str("amount", req.Amount.StringFixed(2)).Logger()

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.HasBankLinked() {
		return nil, domain.NewNotFoundError("No bank linked for this user")
	}
	log.Info().Msg("Starting ACH payment")

	result, err := s.runBankPayment(ctx, user, req, log)
	if err != nil {
		log.Error().Err(err).Msg("ACH payment failed")
		s.publish(ctx, domain.TopicPaymentFailed, domain.PaymentEvent{
			Email:  email,
			Method: domain.PaymentMethodBank,
			Amount: req.Amount,
			Reason: err.Error(),
		})
		return nil, err
	}

	log.Info().Str("charge_id", result.ChargeID).Str("status", result.Status).Msg("Charge created")
	s.publish(ctx, domain.TopicPaymentSucceeded, domain.PaymentEvent{
		Email:    email,
		Method:   domain.PaymentMethodBank,
		Amount:   req.Amount,
		ChargeID: result.ChargeID,
		Status:   result.Status,
	})
	return result, nil
}

func (s *PaymentService) runBankPayment(
	ctx context.Context,
	user *domain.User,
	req domain.BankPaymentRequest,
	log zerolog.Logger,
) (*domain.PaymentResult, error) {
	accessToken := *user.PlaidAccessToken

	// 1. Bank account details
	accounts, err := s.agg.ListAuthAccounts(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	account, ok := domain.PickAccount(accounts, req.AccountID)
	if !ok {
		return nil, domain.NewUpstreamError("plaid", "auth_get", "No bank accounts available on the linked item", nil)
	}
	log.Debug().Str("account_id", account.ID).Msg("Retrieved bank account")

	// 2. Processor bank token
	bankToken, err := s.agg.CreateProcessorToken(ctx, accessToken, account.ID)
	if err != nil {
		return nil, err
	}

	// 3. Customer
	customerID, err := s.resolveCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	// 4. Source, with duplicate recovery inside the processor client
	sourceID, err := s.proc.AttachBankSource(ctx, customerID, bankToken)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("customer_id", customerID).Str("source_id", sourceID).Msg("Bank source ready")

	// 5. Charge
	charge, err := s.proc.Charge(ctx, ports.ChargeParams{
		CustomerID:     customerID,
		SourceID:       sourceID,
		Amount:         domain.ToMinorUnits(req.Amount),
		Description:    fmt.Sprintf("Payment from %s - $%s", user.Email, req.Amount.StringFixed(2)),
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	return &domain.PaymentResult{
		ChargeID: charge.ID,
		Amount:   req.Amount,
		Status:   charge.Status,
	}, nil
}

// CreateCardIntent prepares a card payment the browser confirms directly
// with the processor. No card data passes through this service.
func (s *PaymentService) CreateCardIntent(ctx context.Context, req domain.CardIntentRequest) (*domain.CardIntent, error) {
	if err := domain.ValidatePayment(req.Email, req.Amount); err != nil {
		return nil, err
	}

	user, err := s.users.GetOrCreate(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	customerID, err := s.resolveCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	intent, err := s.proc.CreateCardIntent(ctx, ports.CardIntentParams{
		CustomerID:   customerID,
		Amount:       domain.ToMinorUnits(req.Amount),
		ReceiptEmail: user.Email,
		Description:  fmt.Sprintf("Card payment from %s - $%s", user.Email, req.Amount.StringFixed(2)),
	})
	if err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("Failed to create card intent")
		return nil, err
	}

	s.log.Info().Str("email", user.Email).Str("intent_id", intent.ID).Msg("Card intent created")
	return intent, nil
}

// History lists the user's charges at or above the display floor. Users
// without a processor customer have no history.
func (s *PaymentService) History(ctx context.Context, email string) ([]domain.PaymentRecord, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("Email is required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.StripeCustomerID == nil {
		return []domain.PaymentRecord{}, nil
	}

	charges, err := s.proc.ListCharges(ctx, *user.StripeCustomerID, s.opts.HistoryLimit)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("Failed to fetch payment history")
		return nil, err
	}
	return domain.HistoryFromCharges(charges, s.opts.HistoryMinAmount), nil
}

// resolveCustomer persists the processor customer id the first time it is
// learned; later calls reuse the stored id without a processor lookup.
func (s *PaymentService) resolveCustomer(ctx context.Context, user *domain.User) (string, error) {
	customerID, err := s.proc.ResolveCustomer(ctx, user.Email, user.StripeCustomerID)
	if err != nil {
		return "", err
	}
	if user.StripeCustomerID != nil {
		return customerID, nil
	}

	saved, err := s.repo.SetCustomerID(ctx, user.Email, customerID)
	if err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Str("customer_id", customerID).Msg("Failed to save customer id")
		return "", err
	}
	if saved != nil && saved.StripeCustomerID != nil && *saved.StripeCustomerID != customerID {
		s.log.Warn().
			Str("email", user.Email).
			Str("customer_id", customerID).
			Str("stored_customer_id", *saved.StripeCustomerID).
			Msg("Lost customer id race, using stored customer")
		customerID = *saved.StripeCustomerID
	}
	user.StripeCustomerID = &customerID
	s.log.Info().Str("email", user.Email).Str("customer_id", customerID).Msg("Saved customer id")
	return customerID, nil
}

func (s *PaymentService) publish(ctx context.Context, topic string, data interface{}) {
	if err := s.events.Publish(ctx, topic, data); err != nil {
		s.log.Warn().Err(err).Str("topic", topic).Msg("Failed to publish event")
	}
}
