package mock

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// createAccessToken signs an access token for account bound to the current generation.
func (b *Backend) createAccessToken(account *Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    account.ID,
		"email":  account.Email,
		"tenant": account.TenantSlug,
		"gen":    b.generation.Load(),
		"exp":    now.Add(b.AccessTTL).Unix(),
		"iat":    now.Unix(),
		"jti":    uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(b.Secret)
}

// verifyAccessToken returns the subject of a valid, current-generation token.
func (b *Backend) verifyAccessToken(raw string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return b.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	gen, _ := claims["gen"].(float64)
	if int64(gen) != b.generation.Load() {
		return "", errors.New("token expired")
	}
	return claims.GetSubject()
}
