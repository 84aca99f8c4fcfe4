package infrastructure

import (
	"fmt"
	"strconv"
	"time"

	"arcade/domain/entities"

	"github.com/golang-jwt/jwt/v5"
)

type sessionClaims struct {
	jwt.RegisteredClaims
	PublicID string `json:"pid"`
	Admin    bool   `json:"adm"`
}

// JWTSessionIssuer issues and parses HS256 bearer tokens
type JWTSessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTSessionIssuer creates a session issuer signing with secret
func NewJWTSessionIssuer(secret string, ttl time.Duration) *JWTSessionIssuer {
	return &JWTSessionIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a token for an authenticated account
func (s *JWTSessionIssuer) Issue(account *entities.Account) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	c := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(account.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		PublicID: account.PublicID,
		Admin:    account.Admin,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// Parse validates a token and returns the session it carries
func (s *JWTSessionIssuer) Parse(token string) (*entities.Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrUnauthorized, err)
	}

	c, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", entities.ErrUnauthorized)
	}

	accountID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", entities.ErrUnauthorized)
	}

	return &entities.Session{
		AccountID: accountID,
		PublicID:  c.PublicID,
		Admin:     c.Admin,
	}, nil
}
