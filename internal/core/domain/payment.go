package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod distinguishes the two collection paths.
type PaymentMethod string

const (
	PaymentMethodBank PaymentMethod = "bank"
	PaymentMethodCard PaymentMethod = "card"
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a decimal currency amount to cents, rounding half
// away from zero (the processor's documented behaviour for positive amounts).
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts cents back to an exact decimal amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// Charge is the processor's view of one executed debit.
type Charge struct {
	ID        string
	Amount    int64 // Minor units
	Currency  string
	Status    string
	CreatedAt time.Time
}

// PaymentRecord is a history row as shown to the user.
type PaymentRecord struct {
	ID     string
	Amount decimal.Decimal
	Date   time.Time
	Status string
}

// HistoryFromCharges keeps charges at or above minAmount (minor units),
// preserving the processor's order.
func HistoryFromCharges(charges []Charge, minAmount int64) []PaymentRecord {
	records := make([]PaymentRecord, 0, len(charges))
	for _, c := range charges {
		if c.Amount < minAmount {
			continue
		}
		records = append(records, PaymentRecord{
			ID:     c.ID,
			Amount: FromMinorUnits(c.Amount),
			Date:   c.CreatedAt.UTC(),
			Status: c.Status,
		})
	}
	return records
}

// BankPaymentRequest is the validated input of a bank debit.
type BankPaymentRequest struct {
	Email          string
	Amount         decimal.Decimal
	AccountID      string // Optional, falls back to the first account
	IdempotencyKey string // Optional, forwarded to the processor
}

// CardIntentRequest is the validated input of a card payment intent.
type CardIntentRequest struct {
	Email  string
	Amount decimal.Decimal
}

// PaymentResult is returned after a successful bank debit.
type PaymentResult struct {
	ChargeID string
	Amount   decimal.Decimal
	Status   string
}

// CardIntent carries the client secret the browser confirms with.
type CardIntent struct {
	ID           string
	ClientSecret string
}

// ValidatePayment rejects requests that must never reach an external service.
func ValidatePayment(email string, amount decimal.Decimal) error {
	if NormalizeEmail(email) == "" {
		return NewValidationError("Email is required")
	}
	if !amount.IsPositive() {
		return NewValidationError("Invalid amount")
	}
	return nil
}
