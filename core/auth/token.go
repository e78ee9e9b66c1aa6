// Package auth issues and verifies the bearer tokens of the API and gates routes by role.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

var (
	ErrMissingToken = errors.New("authentication required")
	ErrInvalidToken = errors.New("invalid or expired token")

	errEmptySecret = errors.New("auth: empty secret")

	signingMethod = jwt.SigningMethodHS256
)

// Identity is what a verified token asserts about its bearer.
type Identity struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Issuer signs and verifies tokens with a single HMAC secret.
// Changing the secret invalidates every token signed with the previous one.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue generates a signed token for the user, valid for the Issuer's ttl.
func (iss *Issuer) Issue(userID, role string) (string, error) {
	now := iss.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(iss.ttl)),
		},
		Role: role,
	}

	ss, err := jwt.NewWithClaims(signingMethod, claims).SignedString(iss.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// Verify checks the token signature and expiry and returns the Identity it carries.
func (iss *Issuer) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingToken
	}

	// expiry is checked below against the Issuer's clock
	parser := jwt.Parser{ValidMethods: []string{signingMethod.Alg()}, SkipClaimsValidation: true}
	claims := new(Claims)
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return iss.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(iss.now(), true) || claims.Subject == "" || claims.Role == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.Subject, Role: claims.Role}, nil
}
