package auth

import (
	"context"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenVerifier issues and validates HS256 tokens. It stands in for the
// external identity provider in development and tests.
type TokenVerifier struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenVerifier builds a verifier.
func NewTokenVerifier(secret string, ttlMinutes int) *TokenVerifier {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenVerifier{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes the JWT payload.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for uid.
func (tv *TokenVerifier) IssueToken(uid, email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tv.ttl)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tv.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify validates the signature and expiry and returns the subject.
func (tv *TokenVerifier) Verify(_ context.Context, tokenStr string) (*Subject, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tv.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &VerificationError{Code: "token-expired", Err: err}
		}
		return nil, &VerificationError{Code: "invalid-token", Err: err}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, &VerificationError{Code: "invalid-token", Err: errors.New("invalid token claims")}
	}
	return &Subject{UID: claims.Subject, Email: claims.Email}, nil
}
