package services

import (
	"context"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockUserRepository struct {
	mock.Mock
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) userResult(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, email))
}
func (m *MockUserRepository) SetAccessToken(ctx context.Context, email, token string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, email, token))
}
func (m *MockUserRepository) SetCustomerID(ctx context.Context, email, customerID string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, email, customerID))
}
func (m *MockUserRepository) SetSelectedAccount(ctx context.Context, email, accountID string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, email, accountID))
}
func (m *MockUserRepository) ClearLink(ctx context.Context, email string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, email))
}

type MockAggregation struct {
	mock.Mock
}

var _ ports.AggregationPort = (*MockAggregation)(nil)

func (m *MockAggregation) CreateLinkSession(ctx context.Context, clientUserID string) (string, error) {
	args := m.Called(ctx, clientUserID)
	return args.String(0), args.Error(1)
}
func (m *MockAggregation) ExchangeSession(ctx context.Context, publicToken string) (*ports.ExchangeResult, error) {
	args := m.Called(ctx, publicToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ExchangeResult), args.Error(1)
}
func (m *MockAggregation) ListAccounts(ctx context.Context, accessToken string) ([]domain.BankAccount, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}
func (m *MockAggregation) ListAuthAccounts(ctx context.Context, accessToken string) ([]domain.BankAccount, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}
func (m *MockAggregation) CreateProcessorToken(ctx context.Context, accessToken, accountID string) (string, error) {
	args := m.Called(ctx, accessToken, accountID)
	return args.String(0), args.Error(1)
}

type MockProcessor struct {
	mock.Mock
}

var _ ports.ProcessorPort = (*MockProcessor)(nil)

func (m *MockProcessor) ResolveCustomer(ctx context.Context, email string, storedID *string) (string, error) {
	args := m.Called(ctx, email, storedID)
	return args.String(0), args.Error(1)
}
func (m *MockProcessor) AttachBankSource(ctx context.Context, customerID, bankToken string) (string, error) {
	args := m.Called(ctx, customerID, bankToken)
	return args.String(0), args.Error(1)
}
func (m *MockProcessor) Charge(ctx context.Context, params ports.ChargeParams) (*domain.Charge, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Charge), args.Error(1)
}
func (m *MockProcessor) ListCharges(ctx context.Context, customerID string, limit int) ([]domain.Charge, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Charge), args.Error(1)
}
func (m *MockProcessor) CreateCardIntent(ctx context.Context, params ports.CardIntentParams) (*domain.CardIntent, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardIntent), args.Error(1)
}

type MockEventBus struct {
	mock.Mock
}

var _ ports.EventBus = (*MockEventBus)(nil)

func (m *MockEventBus) Publish(ctx context.Context, topic string, data interface{}) error {
	args := m.Called(ctx, topic, data)
	return args.Error(0)
}
func (m *MockEventBus) Subscribe(topic string, handler ports.EventHandler) {
	m.Called(topic, handler)
}

func strPtr(s string) *string { return &s }
