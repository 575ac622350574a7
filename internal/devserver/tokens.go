// ABOUTME: HS256 session tokens for the dev server
// ABOUTME: Issues and validates expiring JWTs carrying the host id

package devserver

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuerName = "hostdesk-devserver"

var (
	errTokenMissing = errors.New("token required")
	errTokenExpired = errors.New("token expired")
	errTokenInvalid = errors.New("invalid token")
)

type claims struct {
	HostID string `json:"hostId"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (t *tokenIssuer) issue(hostID string) (string, error) {
	now := t.now()
	c := &claims{
		HostID: hostID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuerName,
			Subject:   hostID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

// validate returns the host id carried by a token
func (t *tokenIssuer) validate(token string) (string, error) {
	if token == "" {
		return "", errTokenMissing
	}

	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuerName),
		jwt.WithTimeFunc(t.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", errTokenExpired
	}
	if err != nil || !parsed.Valid || c.HostID == "" {
		return "", errTokenInvalid
	}
	return c.HostID, nil
}
