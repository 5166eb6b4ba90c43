package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the per-email linkage record.
type User struct {
	ID                uuid.UUID
	Email             string  // Always lower-cased
	PlaidAccessToken  *string // Nullable, encrypted at rest
	StripeCustomerID  *string // Nullable, set once on first payment
	SelectedAccountID *string // Nullable, cleared together with PlaidAccessToken
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasBankLinked reports whether the user holds an aggregation access token.
func (u *User) HasBankLinked() bool {
	return u != nil && u.PlaidAccessToken != nil && *u.PlaidAccessToken != ""
}

// NormalizeEmail is applied before every lookup or write.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
