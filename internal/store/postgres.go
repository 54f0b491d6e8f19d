package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	login TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL,
	password TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS designs (
	id SERIAL PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS designs_user_idx ON designs (user_id);
`

type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects, applies the sslmode convention and bootstraps the
// schema. Bare connection strings without an sslmode get sslmode=require.
func OpenPostgres(connStr string) (*Postgres, error) {
	if !strings.Contains(connStr, "sslmode=") {
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			connStr += "?sslmode=require"
		} else {
			connStr += " sslmode=require"
		}
	}
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (s *Postgres) CreateUser(ctx context.Context, login, email, passwordHash string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password, created_at) VALUES ($1, $2, $3, $4) RETURNING id"
	err := s.db.QueryRowContext(ctx, query, login, email, passwordHash, time.Now().UTC()).Scan(&id)
	return id, err
}

func (s *Postgres) UserByLogin(ctx context.Context, login string) (User, error) {
	var u User
	query := "SELECT id, login, email, password, created_at FROM users WHERE login=$1"
	err := s.db.QueryRowContext(ctx, query, login).
		Scan(&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Postgres) CreateDesign(ctx context.Context, d Design) (int, error) {
	var id int
	query := "INSERT INTO designs (user_id, name, payload, created_at) VALUES ($1, $2, $3, $4) RETURNING id"
	err := s.db.QueryRowContext(ctx, query, d.UserID, d.Name, d.Payload, time.Now().UTC()).Scan(&id)
	return id, err
}

func (s *Postgres) DesignsByUser(ctx context.Context, userID int) ([]Design, error) {
	query := "SELECT id, user_id, name, payload, created_at FROM designs WHERE user_id=$1 ORDER BY id DESC"
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Design
	for rows.Next() {
		var d Design
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Payload, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Postgres) DesignByID(ctx context.Context, userID, id int) (Design, error) {
	var d Design
	query := "SELECT id, user_id, name, payload, created_at FROM designs WHERE id=$1 AND user_id=$2"
	err := s.db.QueryRowContext(ctx, query, id, userID).
		Scan(&d.ID, &d.UserID, &d.Name, &d.Payload, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Design{}, ErrNotFound
	}
	return d, err
}

func (s *Postgres) DeleteDesign(ctx context.Context, userID, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM designs WHERE id=$1 AND user_id=$2", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}
