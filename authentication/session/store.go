package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Record is the server-side half of a session.
type Record struct {
	AccountID uint      `json:"account_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Store holds session records by opaque id. Load returns ErrNotFound for
// unknown, deleted or expired ids.
type Store interface {
	Save(ctx context.Context, id string, rec Record, ttl time.Duration) error
	Load(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
}
