package ports

import (
	"context"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"
)

// UserRepository defines the persistence operations for users.
// Every method normalizes the email before touching storage.
type UserRepository interface {
	// Create inserts a fresh record. Returns domain.ErrUserExists on a
	// uniqueness violation.
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail returns (nil, nil) when no record exists.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// The setters return domain.ErrUserNotFound for an unknown email and
	// refresh updated_at.
	SetAccessToken(ctx context.Context, email, token string) (*domain.User, error)
	// SetCustomerID never overwrites a stored id; the returned user carries
	// whichever id is stored.
	SetCustomerID(ctx context.Context, email, customerID string) (*domain.User, error)
	SetSelectedAccount(ctx context.Context, email, accountID string) (*domain.User, error)

	// ClearLink nulls the access token and the selected account in one statement.
	ClearLink(ctx context.Context, email string) (*domain.User, error)
}

// SchemaMigrator creates the tables the repository needs.
type SchemaMigrator interface {
	Migrate(ctx context.Context) error
}
