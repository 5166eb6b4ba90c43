package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetOrCreate_Existing(t *testing.T) {
	nopLogger := zerolog.Nop()
	repo := new(MockUserRepository)
	svc := NewUserService(repo, &nopLogger)

	existing := &domain.User{ID: uuid.New(), Email: "a@x.com"}
	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(existing, nil).Once()

	user, err := svc.GetOrCreate(context.Background(), "A@X.com")

	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_GetOrCreate_Creates(t *testing.T) {
	nopLogger := zerolog.Nop()
	repo := new(MockUserRepository)
	svc := NewUserService(repo, &nopLogger)

	repo.On("GetByEmail", mock.Anything, "new@user.com").Return(nil, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "new@user.com" && u.PlaidAccessToken == nil && u.StripeCustomerID == nil
	})).Return(nil).Once()

	user, err := svc.GetOrCreate(context.Background(), "new@user.com")

	require.NoError(t, err)
	assert.Equal(t, "new@user.com", user.Email)
	repo.AssertExpectations(t)
}

func TestUserService_GetOrCreate_RaceRefetches(t *testing.T) {
	nopLogger := zerolog.Nop()
	repo := new(MockUserRepository)
	svc := NewUserService(repo, &nopLogger)

	winner := &domain.User{ID: uuid.New(), Email: "race@x.com"}
	repo.On("GetByEmail", mock.Anything, "race@x.com").Return(nil, nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrUserExists).Once()
	repo.On("GetByEmail", mock.Anything, "race@x.com").Return(winner, nil).Once()

	user, err := svc.GetOrCreate(context.Background(), "race@x.com")

	require.NoError(t, err)
	assert.Equal(t, winner.ID, user.ID)
	repo.AssertExpectations(t)
}

func TestUserService_GetOrCreate_MissingEmail(t *testing.T) {
	nopLogger := zerolog.Nop()
	repo := new(MockUserRepository)
	svc := NewUserService(repo, &nopLogger)

	_, err := svc.GetOrCreate(context.Background(), "  ")

	assert.True(t, domain.IsValidation(err))
	repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestUserService_Get_NotFound(t *testing.T) {
	nopLogger := zerolog.Nop()
	repo := new(MockUserRepository)
	svc := NewUserService(repo, &nopLogger)

	repo.On("GetByEmail", mock.Anything, "ghost@x.com").Return(nil, nil).Once()

	_, err := svc.Get(context.Background(), "ghost@x.com")
	assert.True(t, domain.IsNotFound(err))
}

func TestUserService_Update_Variants(t *testing.T) {
	nopLogger := zerolog.Nop()
	updated := &domain.User{Email: "a@x.com"}

	testCases := []struct {
		name   string
		update domain.UserUpdate
		setup  func(repo *MockUserRepository)
	}{
		{
			name:   "clear",
			update: domain.ClearLink{},
			setup: func(repo *MockUserRepository) {
				repo.On("ClearLink", mock.Anything, "a@x.com").Return(updated, nil).Once()
			},
		},
		{
			name:   "token",
			update: domain.SetAccessToken{Token: "tok_1"},
			setup: func(repo *MockUserRepository) {
				repo.On("SetAccessToken", mock.Anything, "a@x.com", "tok_1").Return(updated, nil).Once()
			},
		},
		{
			name:   "selected account",
			update: domain.SetSelectedAccount{AccountID: "acc_1"},
			setup: func(repo *MockUserRepository) {
				repo.On("SetSelectedAccount", mock.Anything, "a@x.com", "acc_1").Return(updated, nil).Once()
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tc.setup(repo)
			svc := NewUserService(repo, &nopLogger)

			user, err := svc.Update(context.Background(), "A@x.com", tc.update)

			require.NoError(t, err)
			assert.Same(t, updated, user)
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_Update_UnknownUser(t *testing.T) {
	nopLogger := zerolog.Nop()
	repo := new(MockUserRepository)
	svc := NewUserService(repo, &nopLogger)

	repo.On("ClearLink", mock.Anything, "ghost@x.com").Return(nil, domain.ErrUserNotFound).Once()

	_, err := svc.Update(context.Background(), "ghost@x.com", domain.ClearLink{})
	assert.True(t, domain.IsNotFound(err))
}

func TestUserService_Update_StoreFailure(t *testing.T) {
	nopLogger := zerolog.Nop()
	repo := new(MockUserRepository)
	svc := NewUserService(repo, &nopLogger)

	boom := errors.New("connection reset")
	repo.On("SetSelectedAccount", mock.Anything, "a@x.com", "acc").Return(nil, boom).Once()

	_, err := svc.Update(context.Background(), "a@x.com", domain.SetSelectedAccount{AccountID: "acc"})
	assert.ErrorIs(t, err, boom)
}
