package service

import (
	"fmt"
	"time"

	"github.com/dukerupert/qkart/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeAccess marks access tokens in the "type" claim.
const TokenTypeAccess = "access"

// TokenDetail is a signed token and its expiry.
type TokenDetail struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// AuthTokens is returned by register and login.
type AuthTokens struct {
	Access TokenDetail `json:"access"`
}

// TokenService issues and verifies HS256 access tokens.
type TokenService interface {
	GenerateAuthTokens(user *domain.User) (*AuthTokens, error)
	VerifyAccessToken(token string) (string, error)
}

type tokenClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

type tokenService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewTokenService creates a TokenService signing with secret.
func NewTokenService(secret string, expiration time.Duration) TokenService {
	return &tokenService{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateAuthTokens signs an access token whose subject is the user id.
func (s *tokenService) GenerateAuthTokens(user *domain.User) (*AuthTokens, error) {
	issued := s.now()
	expires := issued.Add(s.expiration)

	claims := tokenClaims{
		Type: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, domain.Internal(err, "token.generate", "failed to sign token")
	}

	return &AuthTokens{
		Access: TokenDetail{Token: signed, Expires: expires},
	}, nil
}

// VerifyAccessToken validates signature, expiry and type, and returns the
// user id from the subject claim.
func (s *tokenService) VerifyAccessToken(token string) (string, error) {
	claims := &tokenClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, s.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	if claims.Type != TokenTypeAccess || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

func (s *tokenService) key(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return s.secret, nil
}
