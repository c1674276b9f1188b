package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pageza/userprofile/backend/internal/types"
)

// JWTManager verifies access tokens signed with a single key. The signing
// method is fixed at construction so tokens using any other algorithm are
// rejected.
type JWTManager struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	issuer    string
}

// Ensure JWTManager implements TokenVerifier
var _ TokenVerifier = (*JWTManager)(nil)

// NewJWTManager creates an HS256 manager for the shared secret.
func NewJWTManager(secret, issuer string) *JWTManager {
	return NewJWTManagerWithMethod(jwt.SigningMethodHS256, []byte(secret), []byte(secret), issuer)
}

// NewJWTManagerWithMethod creates a manager for an arbitrary signing method,
// e.g. RS256 with a private key for signing and a public key for verifying.
func NewJWTManagerWithMethod(method jwt.SigningMethod, signKey, verifyKey any, issuer string) *JWTManager {
	return &JWTManager{
		method:    method,
		signKey:   signKey,
		verifyKey: verifyKey,
		issuer:    issuer,
	}
}

// SignAccessToken issues a token for userID. Only seeding tools and tests
// use it; the HTTP API never mints tokens.
func (m *JWTManager) SignAccessToken(userID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(m.method, claims)
	return token.SignedString(m.signKey)
}

// Decode validates tokenString and returns its claims.
func (m *JWTManager) Decode(tokenString string) (*types.TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return m.verifyKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
