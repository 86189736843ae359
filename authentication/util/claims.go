package util

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/shankarbhopany2-max/shankar-todo-application/pkg/types"
)

// SessionClaims is the payload of the session cookie. Subject carries the
// account id; SessionID names the server-side record.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// FlashClaims is the payload of the one-shot flash cookie.
type FlashClaims struct {
	Flashes []types.Flash `json:"flashes"`
	jwt.RegisteredClaims
}
