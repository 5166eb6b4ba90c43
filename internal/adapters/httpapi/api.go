package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/ports"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/services"
)

// UserAPI is the part of services.UserService the handlers call.
type UserAPI interface {
	Get(ctx context.Context, email string) (*domain.User, error)
	GetOrCreate(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, email string, update domain.UserUpdate) (*domain.User, error)
}

type LinkAPI interface {
	CreateLinkSession(ctx context.Context, email string) (string, error)
	ExchangeToken(ctx context.Context, email, publicToken string) (*ports.ExchangeResult, error)
	ListAccounts(ctx context.Context, email string) (*services.AccountList, error)
}

type PaymentAPI interface {
	CreateBankPayment(ctx context.Context, req domain.BankPaymentRequest) (*domain.PaymentResult, error)
	CreateCardIntent(ctx context.Context, req domain.CardIntentRequest) (*domain.CardIntent, error)
	History(ctx context.Context, email string) ([]domain.PaymentRecord, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RequestObserver receives one sample per served request.
type RequestObserver interface {
	ObserveRequest(route string, status int, took time.Duration)
}

var (
	_ UserAPI    = (*services.UserService)(nil)
	_ LinkAPI    = (*services.LinkService)(nil)
	_ PaymentAPI = (*services.PaymentService)(nil)
)

// Deps is everything the router serves. Health, Observer and Metrics may be nil.
type Deps struct {
	Users    UserAPI
	Links    LinkAPI
	Payments PaymentAPI
	Migrator ports.SchemaMigrator
	Health   Pinger
	Observer RequestObserver
	Metrics  http.Handler

	PublishableKey string
}
