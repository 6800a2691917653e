// Package auth issues and validates the bearer tokens used by the API.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by every token. Subject is the user ID; Role gates the
// admin surface.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the token subject back into a user ID.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token subject %q: %w", c.Subject, err)
	}
	return id, nil
}

// TokenIssuer signs and validates HS256 tokens.
type TokenIssuer struct {
	secret      []byte
	issuer      string
	audience    string
	expire      time.Duration
	rememberFor time.Duration
}

func NewTokenIssuer(secret, issuer, audience string, expireMin, rememberExpireMin int) *TokenIssuer {
	return &TokenIssuer{
		secret:      []byte(secret),
		issuer:      issuer,
		audience:    audience,
		expire:      time.Duration(expireMin) * time.Minute,
		rememberFor: time.Duration(rememberExpireMin) * time.Minute,
	}
}

// Generate returns a signed token for the user. Remember selects the long
// expiry used by "keep me signed in".
func (t *TokenIssuer) Generate(userID int64, role string, remember bool) (string, error) {
	ttl := t.expire
	if remember {
		ttl = t.rememberFor
	}
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token, including issuer and audience.
func (t *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithAudience(t.audience))
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
