package service

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID string   `json:"userId"`
	Roles  []string `json:"roles,omitempty"`
	Type   string   `json:"type"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies the service's bearer tokens. The signing
// key is fixed for the life of the process: every token it issues verifies
// against that same key instance.
type TokenService struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService builds a codec around the given HMAC key. An empty key
// generates a random 64-byte one, matching HS512's block size.
func NewTokenService(secret []byte, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		secret = make([]byte, 64)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive")
	}
	return &TokenService{
		key:        secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

// MintAccessToken issues a short-lived token carrying the user's role names.
func (s *TokenService) MintAccessToken(userID uuid.UUID, username string, roles []string) (string, error) {
	if roles == nil {
		roles = []string{}
	}
	return s.mint(userID, username, roles, TokenTypeAccess, s.accessTTL)
}

// MintRefreshToken issues a long-lived token without role claims.
func (s *TokenService) MintRefreshToken(userID uuid.UUID, username string) (string, error) {
	return s.mint(userID, username, nil, TokenTypeRefresh, s.refreshTTL)
}

func (s *TokenService) mint(userID uuid.UUID, username string, roles []string, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID.String(),
		Roles:  roles,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify reports whether the token is well formed, signed by this service
// and unexpired. It fails closed: any parse problem is simply false.
func (s *TokenService) Verify(token string) bool {
	_, ok := s.Decode(token)
	return ok
}

// Decode returns the claims of a valid token. The second result is false on
// malformed input, a bad signature or expiry; no error-based control flow.
func (s *TokenService) Decode(token string) (*Claims, bool) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, false
	}
	return claims, true
}

// Subject returns the username embedded in the token, or "" when invalid.
func (s *TokenService) Subject(token string) string {
	claims, ok := s.Decode(token)
	if !ok {
		return ""
	}
	return claims.Subject
}

// UserID returns the user id claim, or uuid.Nil when invalid.
func (s *TokenService) UserID(token string) uuid.UUID {
	claims, ok := s.Decode(token)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// Roles returns the role claims; an empty slice when absent or invalid.
func (s *TokenService) Roles(token string) []string {
	claims, ok := s.Decode(token)
	if !ok || claims.Roles == nil {
		return []string{}
	}
	return claims.Roles
}

// IsExpired reports whether a structurally valid token is past its expiry.
// Tokens that fail signature checks report true as well.
func (s *TokenService) IsExpired(token string) bool {
	_, ok := s.Decode(token)
	return !ok
}
