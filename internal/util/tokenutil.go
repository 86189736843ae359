package util

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authutil "github.com/shankarbhopany2-max/shankar-todo-application/authentication/util"
	"github.com/shankarbhopany2-max/shankar-todo-application/pkg/types"
)

var ErrInvalidToken = errors.New("invalid token")

// CreateSessionToken signs a session cookie value for the given server-side
// session id and account.
func CreateSessionToken(sessionID string, accountID uint, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &authutil.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(accountID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}
	return t, nil
}

// ParseSessionToken verifies signature and expiry and returns the session id
// and account id carried by the token.
func ParseSessionToken(requestToken string, secret string) (string, uint, error) {
	claims := &authutil.SessionClaims{}
	if err := parse(requestToken, secret, claims); err != nil {
		return "", 0, err
	}
	if claims.SessionID == "" {
		return "", 0, fmt.Errorf("%w: missing session id", ErrInvalidToken)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return "", 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	return claims.SessionID, uint(id), nil
}

func CreateFlashToken(flashes []types.Flash, secret string, expiry time.Duration) (string, error) {
	claims := &authutil.FlashClaims{
		Flashes: flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseFlashToken(requestToken string, secret string) ([]types.Flash, error) {
	claims := &authutil.FlashClaims{}
	if err := parse(requestToken, secret, claims); err != nil {
		return nil, err
	}
	return claims.Flashes, nil
}

func parse(requestToken, secret string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(requestToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
