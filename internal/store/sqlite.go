package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	login TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL,
	password TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS designs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS designs_user_idx ON designs (user_id);
`

type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database file and bootstraps the schema.
// ":memory:" gives an ephemeral database. Timestamps are stored as unix
// seconds.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// the driver serializes writes; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) CreateUser(ctx context.Context, login, email, passwordHash string) (int, error) {
	query := "INSERT INTO users (login, email, password, created_at) VALUES (?, ?, ?, ?)"
	res, err := s.db.ExecContext(ctx, query, login, email, passwordHash, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func (s *SQLite) UserByLogin(ctx context.Context, login string) (User, error) {
	var u User
	var created int64
	query := "SELECT id, login, email, password, created_at FROM users WHERE login=?"
	err := s.db.QueryRowContext(ctx, query, login).
		Scan(&u.ID, &u.Login, &u.Email, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	u.CreatedAt = time.Unix(created, 0).UTC()
	return u, nil
}

func (s *SQLite) CreateDesign(ctx context.Context, d Design) (int, error) {
	query := "INSERT INTO designs (user_id, name, payload, created_at) VALUES (?, ?, ?, ?)"
	res, err := s.db.ExecContext(ctx, query, d.UserID, d.Name, d.Payload, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func (s *SQLite) DesignsByUser(ctx context.Context, userID int) ([]Design, error) {
	query := "SELECT id, user_id, name, payload, created_at FROM designs WHERE user_id=? ORDER BY id DESC"
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Design
	for rows.Next() {
		var d Design
		var created int64
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Payload, &created); err != nil {
			return nil, err
		}
		d.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLite) DesignByID(ctx context.Context, userID, id int) (Design, error) {
	var d Design
	var created int64
	query := "SELECT id, user_id, name, payload, created_at FROM designs WHERE id=? AND user_id=?"
	err := s.db.QueryRowContext(ctx, query, id, userID).
		Scan(&d.ID, &d.UserID, &d.Name, &d.Payload, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Design{}, ErrNotFound
	}
	if err != nil {
		return Design{}, err
	}
	d.CreatedAt = time.Unix(created, 0).UTC()
	return d, nil
}

func (s *SQLite) DeleteDesign(ctx context.Context, userID, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM designs WHERE id=? AND user_id=?", id, userID)
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

func (s *SQLite) Close() error {
	return s.db.Close()
}
