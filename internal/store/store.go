// Package store persists users and their saved designs. Postgres backs
// deployments; SQLite serves single-node and test setups.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

type User struct {
	ID           int
	Login        string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Design is a saved analysis request body. Payload holds the original JSON
// so a design replays against any analysis endpoint unchanged.
type Design struct {
	ID        int       `json:"id"`
	UserID    int       `json:"-"`
	Name      string    `json:"name"`
	Payload   string    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	CreateUser(ctx context.Context, login, email, passwordHash string) (int, error)
	UserByLogin(ctx context.Context, login string) (User, error)

	CreateDesign(ctx context.Context, d Design) (int, error)
	DesignsByUser(ctx context.Context, userID int) ([]Design, error)
	DesignByID(ctx context.Context, userID, id int) (Design, error)
	DeleteDesign(ctx context.Context, userID, id int) error

	Close() error
}
