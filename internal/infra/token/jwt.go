package token

import (
	"errors"
	"time"

	"storefront/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// JWTIssuerはHS256のアクセストークンを発行/検証する
type JWTIssuer struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

func NewJWTIssuer(secret string, accessTTL time.Duration) *JWTIssuer {
	return &JWTIssuer{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (i *JWTIssuer) TTL() time.Duration { return i.accessTTL }

// Issueはsub=ユーザーIDのトークンを返す
func (i *JWTIssuer) Issue(id model.Identity) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.accessTTL)

	claims := accessClaims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parseは署名・期限を確認してIdentityを取り出す
func (i *JWTIssuer) Parse(raw string) (model.Identity, error) {
	var claims accessClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || tok == nil || !tok.Valid {
		return model.Identity{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return model.Identity{}, ErrInvalidToken
	}
	return model.Identity{ID: claims.Subject, Email: claims.Email}, nil
}
