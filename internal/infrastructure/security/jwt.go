package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/civicvote/voting-api/internal/core/domain"
)

const defaultTokenTTL = time.Hour

// Claims is the token payload: the account id travels as the subject.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer implements ports.TokenIssuer with HS256.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (j *JWTIssuer) Issue(p domain.Principal) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(j.ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: p.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.AccountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	})
	signed, err := t.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (j *JWTIssuer) Verify(token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, domain.ErrInvalidToken
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return j.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, fmt.Errorf("token expired: %w", domain.ErrInvalidToken)
		}
		return domain.Principal{}, domain.ErrInvalidToken
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil || claims.Subject == "" || claims.Role == "" {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	return domain.Principal{AccountID: claims.Subject, Role: role}, nil
}
