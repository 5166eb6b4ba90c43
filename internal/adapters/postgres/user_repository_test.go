package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo() *userRepository {
	nopLogger := zerolog.Nop()
	return NewUserRepository(testDB, testSecSvc, &nopLogger).(*userRepository)
}

func TestUserRepository_Create_GetByEmail_CaseInsensitive(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()
	email := uniqueEmail()
	defer cleanupTestUser(t, email)

	user := &domain.User{Email: email}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, strings.ToLower(email), user.Email)

	found, err := repo.GetByEmail(ctx, strings.ToUpper(email))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.Nil(t, found.PlaidAccessToken)
	assert.Nil(t, found.StripeCustomerID)
	assert.Nil(t, found.SelectedAccountID)
	assert.False(t, found.CreatedAt.IsZero())
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()
	email := uniqueEmail()
	defer cleanupTestUser(t, email)

	require.NoError(t, repo.Create(ctx, &domain.User{Email: email}))

	err := repo.Create(ctx, &domain.User{Email: strings.ToLower(email)})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	repo := newTestRepo()

	found, err := repo.GetByEmail(context.Background(), "nobody-"+uniqueEmail())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserRepository_AccessToken_SealedAtRest(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()
	email := uniqueEmail()
	defer cleanupTestUser(t, email)

	require.NoError(t, repo.Create(ctx, &domain.User{Email: email}))

	updated, err := repo.SetAccessToken(ctx, email, "tok_1")
	require.NoError(t, err)
	require.NotNil(t, updated.PlaidAccessToken)
	assert.Equal(t, "tok_1", *updated.PlaidAccessToken)
	assert.True(t, updated.HasBankLinked())

	var raw string
	err = testDB.pool.QueryRow(ctx, "SELECT plaid_access_token FROM users WHERE email = lower($1)", email).Scan(&raw)
	require.NoError(t, err)
	assert.NotEqual(t, "tok_1", raw, "token must not be stored in plaintext")
}

func TestUserRepository_ClearLink_NullsBoth(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()
	email := uniqueEmail()
	defer cleanupTestUser(t, email)

	require.NoError(t, repo.Create(ctx, &domain.User{Email: email}))
	_, err := repo.SetAccessToken(ctx, email, "tok_1")
	require.NoError(t, err)
	_, err = repo.SetSelectedAccount(ctx, email, "acc_1")
	require.NoError(t, err)
	_, err = repo.SetCustomerID(ctx, email, "cus_1")
	require.NoError(t, err)

	cleared, err := repo.ClearLink(ctx, email)
	require.NoError(t, err)
	assert.Nil(t, cleared.PlaidAccessToken)
	assert.Nil(t, cleared.SelectedAccountID)
	require.NotNil(t, cleared.StripeCustomerID, "customer id survives a re-link")
	assert.Equal(t, "cus_1", *cleared.StripeCustomerID)
}

func TestUserRepository_Update_UnknownUser(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()
	email := "ghost-" + uniqueEmail()

	_, err := repo.SetSelectedAccount(ctx, email, "acc_1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.ClearLink(ctx, email)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_SetCustomerID_KeepsFirstValue(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()
	email := uniqueEmail()
	defer cleanupTestUser(t, email)

	require.NoError(t, repo.Create(ctx, &domain.User{Email: email}))

	first, err := repo.SetCustomerID(ctx, email, "cus_first")
	require.NoError(t, err)
	require.NotNil(t, first.StripeCustomerID)
	assert.Equal(t, "cus_first", *first.StripeCustomerID)

	second, err := repo.SetCustomerID(ctx, email, "cus_second")
	require.NoError(t, err)
	require.NotNil(t, second.StripeCustomerID)
	assert.Equal(t, "cus_first", *second.StripeCustomerID)

	stored, err := repo.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, "cus_first", *stored.StripeCustomerID)

	_, err = repo.SetCustomerID(ctx, "ghost-"+uniqueEmail(), "cus_x")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_Update_RefreshesTimestamp(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()
	email := uniqueEmail()
	defer cleanupTestUser(t, email)

	user := &domain.User{Email: email}
	require.NoError(t, repo.Create(ctx, user))

	updated, err := repo.SetCustomerID(ctx, email, "cus_2")
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(user.UpdatedAt))
}
