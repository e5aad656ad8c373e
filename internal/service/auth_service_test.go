package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbor/internal/config"
	"arbor/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:             "test-secret-0123456789abcdef0123456789",
		AccessTokenTTLMinutes: 60,
		RefreshTokenTTLHours:  24,
	}
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestCreateAccount(t *testing.T) {
	users := noopUserRepo()
	var created *models.User
	users.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 7
		created = u
		return nil
	}
	svc := NewAuthService(testConfig(), users, noopTokenRepo(), noopConfigRepo())

	result, err := svc.CreateAccount(context.Background(), CreateAccountInput{
		Username: "alice",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	// Defaults come from the server configuration.
	assert.Equal(t, models.VisibilityServerPublic, created.Visibility)
	assert.True(t, created.Permissions.Has(models.PermissionCreatePosts))
	assert.NotEmpty(t, created.PasswordHash)
	assert.NotEqual(t, "hunter2hunter2", created.PasswordHash)

	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
}

func TestCreateAccountShortPassword(t *testing.T) {
	svc := NewAuthService(testConfig(), noopUserRepo(), noopTokenRepo(), noopConfigRepo())
	_, err := svc.CreateAccount(context.Background(), CreateAccountInput{Username: "alice", Password: "short"})
	require.Error(t, err)
	assert.Equal(t, "invalid_password", appErrCode(t, err))
}

func TestCreateAccountUsernameTaken(t *testing.T) {
	users := noopUserRepo()
	users.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: 3, Username: "alice"}, nil
	}
	svc := NewAuthService(testConfig(), users, noopTokenRepo(), noopConfigRepo())

	_, err := svc.CreateAccount(context.Background(), CreateAccountInput{Username: "alice", Password: "hunter2hunter2"})
	require.Error(t, err)
	assert.Equal(t, "username_taken", appErrCode(t, err))
}

func TestLoginAndAuthenticate(t *testing.T) {
	users := noopUserRepo()
	svc := NewAuthService(testConfig(), users, noopTokenRepo(), noopConfigRepo())

	var stored *models.User
	users.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 12
		stored = u
		return nil
	}
	_, err := svc.CreateAccount(context.Background(), CreateAccountInput{Username: "bob", Password: "correcthorse"})
	require.NoError(t, err)

	users.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username == "bob" {
			return stored, nil
		}
		return nil, models.NewNotFoundError("user_not_found")
	}
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		if id == stored.ID {
			return stored, nil
		}
		return nil, models.NewNotFoundError("user_not_found")
	}

	result, err := svc.Login(context.Background(), "bob", "correcthorse")
	require.NoError(t, err)

	actor, err := svc.Authenticate(context.Background(), result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, actor.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	users := noopUserRepo()
	users.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: 1, Username: "bob", PasswordHash: "$2a$10$invalidhashinvalidhashinvalidha"}, nil
	}
	svc := NewAuthService(testConfig(), users, noopTokenRepo(), noopConfigRepo())

	_, err := svc.Login(context.Background(), "bob", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid_credentials", appErrCode(t, err))

	// An unknown username yields the same code as a wrong password.
	users.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
		return nil, models.NewNotFoundError("user_not_found")
	}
	_, err = svc.Login(context.Background(), "nobody", "whatever")
	require.Error(t, err)
	assert.Equal(t, "invalid_credentials", appErrCode(t, err))
}

func TestRefreshTokenExpired(t *testing.T) {
	tokens := noopTokenRepo()
	tokens.getByTokenFn = func(_ context.Context, _ string) (*models.RefreshToken, error) {
		return &models.RefreshToken{ID: 1, UserID: 2, Token: "t", ExpiresAt: time.Now().Add(-time.Hour)}, nil
	}
	deleted := false
	tokens.deleteFn = func(_ context.Context, _ uint) error {
		deleted = true
		return nil
	}
	svc := NewAuthService(testConfig(), noopUserRepo(), tokens, noopConfigRepo())

	_, err := svc.RefreshToken(context.Background(), "t")
	require.Error(t, err)
	assert.Equal(t, "expired_refresh_token", appErrCode(t, err))
	assert.True(t, deleted, "expired token should be removed")
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc := NewAuthService(testConfig(), noopUserRepo(), noopTokenRepo(), noopConfigRepo())
	_, err := svc.Authenticate(context.Background(), "not.a.jwt")
	require.Error(t, err)
	assert.Equal(t, "invalid_token", appErrCode(t, err))
}
