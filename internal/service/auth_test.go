package service

import (
	"context"
	"testing"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		tokens := new(MockTokenManager)
		svc := NewAuthService(userRepo, tokens)

		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.User).ID = 2 }).
			Return(nil)
		tokens.On("GenerateAccessToken", int32(2), "carol").Return("access", nil)
		tokens.On("GenerateRefreshToken", int32(2)).Return("refresh", nil)

		user, access, refresh, err := svc.Signup(ctx, "carol", "carol@example.com", "hunter2hunter2")
		require.NoError(t, err)
		assert.Equal(t, "carol", user.LoginName)
		assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
		assert.Equal(t, "access", access)
		assert.Equal(t, "refresh", refresh)
	})

	t.Run("PasswordTooShort", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepo), new(MockTokenManager))

		_, _, _, err := svc.Signup(ctx, "carol", "carol@example.com", "short")
		assert.True(t, domain.IsCode(err, domain.CodeInvalid))
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	user := &domain.User{ID: 2, LoginName: "carol", PasswordHash: string(hash)}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		tokens := new(MockTokenManager)
		svc := NewAuthService(userRepo, tokens)

		userRepo.On("GetByLoginName", mock.Anything, "carol").Return(user, nil)
		tokens.On("GenerateAccessToken", int32(2), "carol").Return("access", nil)
		tokens.On("GenerateRefreshToken", int32(2)).Return("refresh", nil)

		got, access, _, err := svc.Login(ctx, "carol", "hunter2hunter2")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "access", access)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, new(MockTokenManager))

		userRepo.On("GetByLoginName", mock.Anything, "carol").Return(user, nil)

		_, _, _, err := svc.Login(ctx, "carol", "nope")
		assert.True(t, domain.IsCode(err, domain.CodeForbidden))
	})

	t.Run("UnknownUser", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, new(MockTokenManager))

		userRepo.On("GetByLoginName", mock.Anything, "ghost").
			Return(nil, domain.NotFoundError("user not found"))

		// The same error comes back whether the user or the password was
		// wrong.
		_, _, _, err := svc.Login(ctx, "ghost", "hunter2hunter2")
		assert.True(t, domain.IsCode(err, domain.CodeForbidden))
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: 2, LoginName: "carol"}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		tokens := new(MockTokenManager)
		svc := NewAuthService(userRepo, tokens)

		tokens.On("ValidateToken", "refresh-token", security.TokenTypeRefresh).
			Return(&security.UserClaims{UserID: 2, Type: security.TokenTypeRefresh}, nil)
		userRepo.On("GetByID", mock.Anything, int32(2)).Return(user, nil)
		tokens.On("GenerateAccessToken", int32(2), "carol").Return("access", nil)
		tokens.On("GenerateRefreshToken", int32(2)).Return("refresh", nil)

		access, refresh, err := svc.Refresh(ctx, "refresh-token")
		require.NoError(t, err)
		assert.Equal(t, "access", access)
		assert.Equal(t, "refresh", refresh)
	})

	t.Run("AccessTokenRejected", func(t *testing.T) {
		tokens := new(MockTokenManager)
		svc := NewAuthService(new(MockUserRepo), tokens)

		tokens.On("ValidateToken", "access-token", security.TokenTypeRefresh).
			Return(nil, security.ErrWrongTokenType)

		_, _, err := svc.Refresh(ctx, "access-token")
		assert.True(t, domain.IsCode(err, domain.CodeForbidden))
	})

	t.Run("InvalidToken", func(t *testing.T) {
		tokens := new(MockTokenManager)
		svc := NewAuthService(new(MockUserRepo), tokens)

		tokens.On("ValidateToken", "garbage", security.TokenTypeRefresh).Return(nil, security.ErrInvalidToken)

		_, _, err := svc.Refresh(ctx, "garbage")
		assert.True(t, domain.IsCode(err, domain.CodeForbidden))
	})
}
