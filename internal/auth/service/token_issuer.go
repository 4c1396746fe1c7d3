package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/expensio/backend/internal/common/clock"
	userdomain "github.com/expensio/backend/internal/user/domain"
)

// TokenIssuer signs HS256 access tokens carrying the user identity.
// Claims: sub (user id), usr (username), exp, iat.
type TokenIssuer struct {
	jwtSecret      []byte
	clock          clock.Clock
	accessTokenTTL time.Duration
}

func NewTokenIssuer(jwtSecret string, accessTokenTTL time.Duration, clock clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret:      []byte(jwtSecret),
		clock:          clock,
		accessTokenTTL: accessTokenTTL,
	}
}

func (ti *TokenIssuer) IssueAccessToken(identity userdomain.Identity) (string, error) {
	now := ti.clock.Now()
	claims := jwt.MapClaims{
		"sub": string(identity.ID),
		"usr": identity.Username,
		"exp": now.Add(ti.accessTokenTTL).Unix(),
		"iat": now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	incrementAccessTokensIssued()
	return tokenString, nil
}
