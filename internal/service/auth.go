package service

import (
	"context"
	"fmt"
	"time"

	"github.com/authstack/backend/internal/model"
	"go.uber.org/zap"
)

// AuthUserRepo is the user lookup the coordinator needs.
type AuthUserRepo interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// AuthService orchestrates login, logout, refresh and validation on top of
// the token codec, password hasher, lockout policy, permission resolver and
// revocation store.
type AuthService struct {
	users    AuthUserRepo
	tokens   *TokenService
	hasher   *PasswordHasher
	lockout  *LockoutPolicy
	resolver *PermissionResolver
	revoked  RevocationStore
	notFound func(error) bool
	log      *zap.Logger
}

func NewAuthService(
	users AuthUserRepo,
	tokens *TokenService,
	hasher *PasswordHasher,
	lockout *LockoutPolicy,
	resolver *PermissionResolver,
	revoked RevocationStore,
	notFound func(error) bool,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		lockout:  lockout,
		resolver: resolver,
		revoked:  revoked,
		notFound: notFound,
		log:      log,
	}
}

// Login authenticates a username/password pair and issues a token pair.
// Checks run in a fixed order: lookup, credential, status, lockout. A wrong
// password counts toward the lockout threshold even when the account would
// have been rejected later anyway.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if s.notFound(err) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, username)
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		if _, err := s.lockout.OnFailedAttempt(ctx, user); err != nil {
			s.log.Error("recording failed login attempt", zap.Error(err))
		}
		return nil, ErrInvalidCredentials
	}

	// Blocking an account also suspends it, so the lockout check has to
	// come first for the caller to learn when the window ends.
	if s.lockout.IsLocked(user) {
		return nil, fmt.Errorf("%w until %s", ErrAccountLocked, user.BlockedUntil.Format("2006-01-02T15:04:05Z07:00"))
	}

	if user.Status != model.StatusActive {
		return nil, ErrAccountInactive
	}

	loginTime := s.lockout.now()
	if err := s.lockout.OnSuccessfulAttempt(ctx, user, loginTime); err != nil {
		return nil, err
	}

	roles, err := s.resolver.EffectiveRoleNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.MintAccessToken(user.ID, user.Username, roles)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.MintRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	s.log.Info("login succeeded", zap.String("username", user.Username))
	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
		UserID:       user.ID,
		Username:     user.Username,
		Status:       user.Status,
		Roles:        roles,
		LoginTime:    loginTime,
	}, nil
}

// Logout revokes the presented access token. It is idempotent: revoking an
// already-revoked or even garbage token is a no-op success.
func (s *AuthService) Logout(ctx context.Context, accessToken string) {
	expiry := tokenExpiry(s.tokens, accessToken)
	s.revoked.Revoke(accessToken, expiry)
	s.log.Info("session closed")
}

// Refresh rotates a refresh token into a fresh access/refresh pair. Role
// claims are re-resolved from current assignments, never copied from the
// old token. The consumed refresh token is revoked so replaying it fails.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, ok := s.tokens.Decode(refreshToken)
	if !ok || claims.Type != TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}
	if s.revoked.IsRevoked(refreshToken) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if s.notFound(err) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if user.Status != model.StatusActive {
		return nil, ErrInvalidRefreshToken
	}

	roles, err := s.resolver.EffectiveRoleNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.MintAccessToken(user.ID, user.Username, roles)
	if err != nil {
		return nil, err
	}
	newRefreshToken, err := s.tokens.MintRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	s.revoked.Revoke(refreshToken, claims.ExpiresAt.Time)

	s.log.Info("token refreshed", zap.String("username", user.Username))
	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// ValidateToken answers false for revoked tokens, otherwise defers to the
// codec. It never fails: callers treat any problem as an invalid token.
func (s *AuthService) ValidateToken(ctx context.Context, token string) bool {
	if s.revoked.IsRevoked(token) {
		return false
	}
	return s.tokens.Verify(token)
}

// tokenExpiry bounds how long a revocation entry has to live. Garbage
// tokens get a zero time; the sweep keeps those until process restart,
// which is harmless.
func tokenExpiry(tokens *TokenService, token string) time.Time {
	if claims, ok := tokens.Decode(token); ok && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return time.Time{}
}
