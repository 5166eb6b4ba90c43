package ports

import (
	"context"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"
)

// ExchangeResult is the outcome of a one-time public token exchange.
type ExchangeResult struct {
	AccessToken string
	ItemID      string
}

// AggregationPort is the bank-data aggregation service (Plaid).
type AggregationPort interface {
	// CreateLinkSession returns a short-lived link token for one end user.
	CreateLinkSession(ctx context.Context, clientUserID string) (string, error)

	// ExchangeSession trades a temporary public token for a durable access token.
	// Must be called at most once per public token.
	ExchangeSession(ctx context.Context, publicToken string) (*ExchangeResult, error)

	// ListAccounts returns depository accounts only.
	ListAccounts(ctx context.Context, accessToken string) ([]domain.BankAccount, error)

	// ListAuthAccounts returns the accounts eligible for ACH debits.
	ListAuthAccounts(ctx context.Context, accessToken string) ([]domain.BankAccount, error)

	// CreateProcessorToken converts one account into a processor bank token.
	CreateProcessorToken(ctx context.Context, accessToken, accountID string) (string, error)
}
