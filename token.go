package picshelf

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = 12 * time.Hour

const tokenIssuerName = "picshelf"

// TokenConfig holds the signing parameters for issued access tokens. Secret
// and Algorithm come from configuration and are required at process start.
type TokenConfig struct {
	Secret    string
	Algorithm string // HMAC family only: HS256, HS384, HS512
	TTL       time.Duration
}

// TokenIssuer issues and verifies signed access tokens carrying a user id as
// subject.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("new token issuer: %w: signing secret cannot be empty", ErrInvalidInput)
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = "HS256"
	}

	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("new token issuer: unknown signing algorithm %q", alg)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("new token issuer: algorithm %q is not an HMAC method", alg)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenIssuer{
		secret: []byte(cfg.Secret),
		method: method,
		ttl:    ttl,
	}, nil
}

// Issue signs a token for the given user. The subject claim carries the
// user's id; the expiry is always finite.
func (t *TokenIssuer) Issue(user User) (Token, error) {
	now := time.Now()
	claims := jwt.NewWithClaims(t.method, jwt.RegisteredClaims{
		Issuer:    tokenIssuerName,
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	})

	signed, err := claims.SignedString(t.secret)
	if err != nil {
		return Token{}, fmt.Errorf("issue token: %w", err)
	}

	return Token{Access: signed}, nil
}

// Verify parses a token string and returns its claims. Returns
// ErrUnauthorized for anything that does not carry a valid signature from
// this issuer, including expired tokens and foreign signing methods.
func (t *TokenIssuer) Verify(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		if tok.Method.Alg() != t.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", tok.Method.Alg())
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("verify token: %w", ErrUnauthorized)
	}

	return claims, nil
}
