package postgres

import (
	"context"
	"errors"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// uniqueViolation is SQLSTATE 23505.
const uniqueViolation = "23505"

type userRepository struct {
	db     *DB
	secSvc ports.SecurityPort // Seals the aggregation access token
	log    zerolog.Logger
}

var _ ports.UserRepository = (*userRepository)(nil)

// NewUserRepository creates a new repository for user operations.
func NewUserRepository(db *DB, secSvc ports.SecurityPort, baseLogger *zerolog.Logger) ports.UserRepository {
	return &userRepository{
		db:     db,
		secSvc: secSvc,
		log:    baseLogger.With().Str("component", "user_repo").Logger(),
	}
}

const userQueryCols = `
	id, email, plaid_access_token, stripe_customer_id, selected_account_id,
	created_at, updated_at
`

// Create inserts a new user with all link fields null.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = domain.NormalizeEmail(user.Email)

	query := `INSERT INTO users (id, email) VALUES ($1, $2) RETURNING created_at, updated_at`
	err := r.db.pool.QueryRow(ctx, query, user.ID, user.Email).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.log.Info().Str("email", user.Email).Msg("User already exists (concurrent create)")
			return domain.ErrUserExists
		}
		r.log.Error().Err(err).Str("email", user.Email).Msg("Failed to insert new user")
		return err
	}
	return nil
}

// scanUser scans a row and opens the sealed access token.
func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var sealedToken *string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&sealedToken,
		&user.StripeCustomerID,
		&user.SelectedAccountID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		r.log.Error().Err(err).Msg("Failed to scan user row")
		return nil, err
	}

	if sealedToken != nil {
		token, err := r.secSvc.OpenString(*sealedToken)
		if err != nil {
			r.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to open access token (tampered?)")
			return nil, err
		}
		user.PlaidAccessToken = &token
	}

	return &user, nil
}

// GetByEmail returns (nil, nil) for an unknown email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	query := `SELECT ` + userQueryCols + ` FROM users WHERE email = $1`

	user, err := r.scanUser(r.db.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Debug().Str("email", email).Msg("User not found")
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// SetAccessToken seals and stores the durable aggregation token.
func (r *userRepository) SetAccessToken(ctx context.Context, email, token string) (*domain.User, error) {
	sealed, err := r.secSvc.SealString(token)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to seal access token")
		return nil, err
	}
	return r.update(ctx, email, "plaid_access_token = $2", sealed)
}

// SetCustomerID stores customerID only while the column is empty. When a
// concurrent request got there first the stored row is returned unchanged.
func (r *userRepository) SetCustomerID(ctx context.Context, email, customerID string) (*domain.User, error) {
	user, err := r.updateWhere(ctx, email, "stripe_customer_id = $2", "stripe_customer_id IS NULL", customerID)
	if !errors.Is(err, domain.ErrUserNotFound) {
		return user, err
	}

	existing, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrUserNotFound
	}
	r.log.Info().
		Str("email", existing.Email).
		Str("customer_id", customerID).
		Msg("Customer id already set, keeping stored value")
	return existing, nil
}

func (r *userRepository) SetSelectedAccount(ctx context.Context, email, accountID string) (*domain.User, error) {
	return r.update(ctx, email, "selected_account_id = $2", accountID)
}

// ClearLink nulls both link columns in one statement so they never diverge.
func (r *userRepository) ClearLink(ctx context.Context, email string) (*domain.User, error) {
	return r.update(ctx, email, "plaid_access_token = NULL, selected_account_id = NULL")
}

// update applies a SET clause, bumps updated_at and returns the new row.
// $1 is always the normalized email.
func (r *userRepository) update(ctx context.Context, email, set string, args ...any) (*domain.User, error) {
	return r.updateWhere(ctx, email, set, "", args...)
}

// updateWhere is update with an extra WHERE condition. A row that fails
// cond reports domain.ErrUserNotFound like a missing one.
func (r *userRepository) updateWhere(ctx context.Context, email, set, cond string, args ...any) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	where := "email = $1"
	if cond != "" {
		where += " AND " + cond
	}
	query := `UPDATE users SET ` + set + `, updated_at = CURRENT_TIMESTAMP
		WHERE ` + where + ` RETURNING ` + userQueryCols

	user, err := r.scanUser(r.db.pool.QueryRow(ctx, query, append([]any{email}, args...)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Warn().Str("email", email).Msg("Update for unknown user")
			return nil, domain.ErrUserNotFound
		}
		r.log.Error().Err(err).Str("email", email).Msg("Failed to update user")
		return nil, err
	}
	return user, nil
}
