package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "typ" claim.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrNotRefresh   = errors.New("not a refresh token")
)

// Claims is the signed payload of access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int    `json:"user_id"`
	TokenType string `json:"typ"`
}

// Identity is the result of verifying a connection credential. Anonymous is
// the common case for bad input, so callers branch on Authenticated instead
// of catching errors.
type Identity struct {
	UserID        int
	Authenticated bool
	Err           error
}

// Anonymous builds an unauthenticated identity carrying the failure reason.
func Anonymous(err error) Identity {
	return Identity{Err: err}
}

// Verifier validates and mints tokens against a shared signing key.
type Verifier struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewVerifier constructs a Verifier. TTLs of zero fall back to defaults
// (1h access, 7d refresh).
func NewVerifier(secret string, accessTTL, refreshTTL time.Duration) *Verifier {
	if accessTTL == 0 {
		accessTTL = time.Hour
	}
	if refreshTTL == 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Verifier{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Verify resolves a bearer token to an identity. Every failure mode
// (malformed token, bad signature, expiry, missing claim) degrades to an
// anonymous identity; it never panics and never returns an error to unwind.
func (v *Verifier) Verify(token string) Identity {
	if token == "" {
		return Anonymous(ErrTokenInvalid)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Anonymous(ErrTokenInvalid)
	}
	if claims.UserID == 0 || claims.TokenType == tokenTypeRefresh {
		return Anonymous(ErrTokenInvalid)
	}
	return Identity{UserID: claims.UserID, Authenticated: true}
}

// Mint issues an access token for the user.
func (v *Verifier) Mint(userID int) (string, error) {
	return v.sign(userID, tokenTypeAccess, v.accessTTL)
}

// MintRefresh issues a refresh token for the user.
func (v *Verifier) MintRefresh(userID int) (string, error) {
	return v.sign(userID, tokenTypeRefresh, v.refreshTTL)
}

// VerifyRefresh validates a refresh token and returns the user id.
func (v *Verifier) VerifyRefresh(token string) (int, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid || claims.UserID == 0 {
		return 0, ErrTokenInvalid
	}
	if claims.TokenType != tokenTypeRefresh {
		return 0, ErrNotRefresh
	}
	return claims.UserID, nil
}

func (v *Verifier) sign(userID int, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "photo-service",
		},
		UserID:    userID,
		TokenType: tokenType,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
