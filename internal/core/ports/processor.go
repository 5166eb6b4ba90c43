package ports

import (
	"context"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"
)

// ChargeParams describes a single immediate debit.
type ChargeParams struct {
	CustomerID     string
	SourceID       string
	Amount         int64 // Minor units
	Description    string
	IdempotencyKey string
}

// CardIntentParams describes a client-confirmed card payment.
type CardIntentParams struct {
	CustomerID   string
	Amount       int64 // Minor units
	ReceiptEmail string
	Description  string
}

// ProcessorPort is the payment processor (Stripe).
type ProcessorPort interface {
	// ResolveCustomer uses storedID if set, else finds a customer by email,
	// else creates one.
	ResolveCustomer(ctx context.Context, email string, storedID *string) (string, error)

	// AttachBankSource attaches a bank token and returns the source id. An
	// "already attached" rejection is recovered by reusing the existing
	// bank source.
	AttachBankSource(ctx context.Context, customerID, bankToken string) (string, error)

	Charge(ctx context.Context, params ChargeParams) (*domain.Charge, error)
	ListCharges(ctx context.Context, customerID string, limit int) ([]domain.Charge, error)
	CreateCardIntent(ctx context.Context, params CardIntentParams) (*domain.CardIntent, error)
}
