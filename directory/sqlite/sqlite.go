// Package sqlite reads the user directory from an SQLite database.
//
// The driver is modernc.org/sqlite (pure Go, no cgo). The expected schema is
//
//	CREATE TABLE users (
//	    id            TEXT PRIMARY KEY,
//	    username      TEXT NOT NULL,
//	    display_name  TEXT NOT NULL DEFAULT '',
//	    profile_image TEXT NOT NULL DEFAULT ''
//	)
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/hupe1980/usersearch/model"

	_ "modernc.org/sqlite"
)

// DefaultTable is the table read by New.
const DefaultTable = "users"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Source loads users from a table.
type Source struct {
	db    *sql.DB
	table string
}

// Open opens (or creates) the database file at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	return db, nil
}

// New creates a Source over the default table.
func New(db *sql.DB) *Source {
	return &Source{db: db, table: DefaultTable}
}

// NewWithTable creates a Source over a custom table name.
func NewWithTable(db *sql.DB, table string) (*Source, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("sqlite: invalid table name %q", table)
	}
	return &Source{db: db, table: table}, nil
}

// EnsureSchema creates the table if it does not exist.
func (s *Source) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+s.table+` (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL,
		display_name  TEXT NOT NULL DEFAULT '',
		profile_image TEXT NOT NULL DEFAULT ''
	)`)
	if err != nil {
		return fmt.Errorf("sqlite: create %s: %w", s.table, err)
	}
	return nil
}

// Upsert inserts or replaces users in one transaction.
func (s *Source) Upsert(ctx context.Context, users []model.User) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+s.table+` (id, username, display_name, profile_image)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			display_name = excluded.display_name,
			profile_image = excluded.profile_image`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, u := range users {
		if _, err = stmt.ExecContext(ctx, u.ID, u.Username, u.DisplayName, u.ProfileImage); err != nil {
			return fmt.Errorf("sqlite: upsert %s: %w", u.ID, err)
		}
	}
	return tx.Commit()
}

// Delete removes users by ID.
func (s *Source) Delete(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+s.table+` WHERE id = ?`, id); err != nil {
			return fmt.Errorf("sqlite: delete %s: %w", id, err)
		}
	}
	return nil
}

// Load returns all users ordered by ID.
func (s *Source) Load(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, username, display_name, profile_image FROM `+s.table+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query %s: %w", s.table, err)
	}
	defer func() { _ = rows.Close() }()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.ProfileImage); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
