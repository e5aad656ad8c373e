package service

import (
	"context"
	"fmt"
	"time"

	"arbor/internal/config"
	"arbor/internal/models"
	"arbor/internal/repository"
	"arbor/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles account creation, login, and token refresh.
type AuthService struct {
	cfg        *config.Config
	userRepo   repository.UserRepository
	tokenRepo  repository.RefreshTokenRepository
	configRepo repository.ServerConfigurationRepository
}

// NewAuthService returns a new AuthService.
func NewAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	configRepo repository.ServerConfigurationRepository,
) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, tokenRepo: tokenRepo, configRepo: configRepo}
}

// CreateAccountInput is the payload for account creation.
type CreateAccountInput struct {
	Username string
	Password string
	Email    *string
	Phone    *string
}

// TokenPair is an access token plus the refresh token backing it.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResult is the outcome of account creation or login.
type AuthResult struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// CreateAccount registers a new user. The new user inherits the server
// configuration's default visibility and permission set, created lazily
// if this is the first account.
func (s *AuthService) CreateAccount(ctx context.Context, in CreateAccountInput) (*AuthResult, error) {
	if len(in.Password) < 8 {
		return nil, models.NewValidationError("invalid_password")
	}

	serverCfg, err := s.configRepo.GetOrInit(ctx)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:                in.Username,
		Email:                   in.Email,
		Phone:                   in.Phone,
		Permissions:             serverCfg.DefaultUserPermissions,
		Visibility:              serverCfg.DefaultUserVisibility,
		DefaultFollowModeration: models.ModerationUnmoderated,
	}
	if verr := validation.ValidateUser(user); verr != nil {
		return nil, verr
	}

	if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err == nil && existing != nil {
		return nil, models.NewValidationError("username_taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError("error_hashing_password", err)
	}
	user.PasswordHash = string(hash)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: *tokens}, nil
}

// Login authenticates by username and password.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		// Credential probing must not reveal which half failed.
		return nil, models.NewUnauthenticatedError("invalid_credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.NewUnauthenticatedError("invalid_credentials")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: *tokens}, nil
}

// RefreshToken exchanges a valid refresh token for a new access token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.tokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if stored.Expired(time.Now()) {
		_ = s.tokenRepo.Delete(ctx, stored.ID)
		return nil, models.NewUnauthenticatedError("expired_refresh_token")
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	access, expiresAt, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// GetCurrentUser returns the actor's own user record.
func (s *AuthService) GetCurrentUser(ctx context.Context, actor *Actor) (*models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, actor.UserID)
}

// Authenticate resolves a bearer token into an Actor. Failure modes are
// missing, expired, and invalid credentials, each reported as
// unauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*Actor, error) {
	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewUnauthenticatedError("invalid_token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthenticatedError("invalid_token")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, models.NewUnauthenticatedError("invalid_token")
	}
	var userID uint
	if _, err := fmt.Sscanf(sub, "%d", &userID); err != nil || userID == 0 {
		return nil, models.NewUnauthenticatedError("invalid_token")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, models.NewUnauthenticatedError("invalid_token")
	}
	return ActorFromUser(user), nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, expiresAt, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}

	refresh := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.RefreshTokenTTLHours) * time.Hour),
	}
	if err := s.tokenRepo.Create(ctx, refresh); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh.Token,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *AuthService) signAccessToken(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.AccessTokenTTLMinutes) * time.Minute)
	claims := jwt.MapClaims{
		"sub": fmt.Sprintf("%d", user.ID),
		"iat": time.Now().Unix(),
		"exp": expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, models.NewInternalError("error_signing_token", err)
	}
	return signed, expiresAt, nil
}
