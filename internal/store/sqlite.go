package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/notAbhay321/monkeytype-streak-notifier/internal/domain"
)

// SQLiteRepo implements Directory using an embedded SQLite database.
type SQLiteRepo struct {
	db     *sql.DB
	cipher CredentialCipher
}

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies PRAGMAs, runs SQL migrations, and returns a repository.
// cipher may be nil.
func OpenSQLite(ctx context.Context, path string, cipher CredentialCipher) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite is a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db, cipher: cipher}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const upsertUser = `
	INSERT INTO users (
		identity, credential, offset_hours, display_name,
		chat_id, registered_at, last_reminder_date
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(identity) DO UPDATE SET
		credential         = excluded.credential,
		offset_hours       = excluded.offset_hours,
		display_name       = excluded.display_name,
		chat_id            = excluded.chat_id,
		registered_at      = excluded.registered_at,
		last_reminder_date = excluded.last_reminder_date`

func (r *SQLiteRepo) upsert(ctx context.Context, ex execer, u *domain.User) error {
	if err := validate(u); err != nil {
		return err
	}
	cred, err := sealCredential(r.cipher, u.Credential)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, upsertUser,
		u.Identity, cred, u.OffsetHours, u.DisplayName,
		u.ChatID, formatTime(u.RegisteredAt), toNullDate(u.LastReminderDate),
	)
	return err
}

// Put inserts the user or replaces the stored row for its identity.
func (r *SQLiteRepo) Put(ctx context.Context, u *domain.User) error {
	return r.upsert(ctx, r.db, u)
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepo) scanUser(s scanner) (*domain.User, error) {
	var (
		u            domain.User
		cred         string
		registeredAt string
		lastNS       sql.NullString
	)
	if err := s.Scan(
		&u.Identity, &cred, &u.OffsetHours, &u.DisplayName,
		&u.ChatID, &registeredAt, &lastNS,
	); err != nil {
		return nil, err
	}

	var err error
	if u.Credential, err = openCredential(r.cipher, cred); err != nil {
		return nil, fmt.Errorf("user %s: %w", u.Identity, err)
	}
	if u.RegisteredAt, err = parseTime(registeredAt); err != nil {
		return nil, fmt.Errorf("user %s: registered_at: %w", u.Identity, err)
	}
	if u.LastReminderDate, err = fromNullDate(lastNS); err != nil {
		return nil, fmt.Errorf("user %s: last_reminder_date: %w", u.Identity, err)
	}
	return &u, nil
}

const selectUsers = `
	SELECT identity, credential, offset_hours, display_name,
	       chat_id, registered_at, last_reminder_date
	FROM users`

// Get returns the user with the given identity or ErrNotFound.
func (r *SQLiteRepo) Get(ctx context.Context, identity string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUsers+` WHERE identity = ?`, identity)
	u, err := r.scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// Delete removes the user or returns ErrNotFound.
func (r *SQLiteRepo) Delete(ctx context.Context, identity string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE identity = ?`, identity)
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

// All returns every user ordered by identity.
func (r *SQLiteRepo) All(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUsers+` ORDER BY identity ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// SaveAll replaces the table contents with users in one transaction.
func (r *SQLiteRepo) SaveAll(ctx context.Context, users []domain.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
		_ = tx.Rollback()
		return err
	}
	for i := range users {
		if err := r.upsert(ctx, tx, &users[i]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// MarkReminded updates last_reminder_date for the given identities in one
// transaction. Rows deleted in the meantime stay deleted.
func (r *SQLiteRepo) MarkReminded(ctx context.Context, dates map[string]domain.Date) error {
	if len(dates) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for id, day := range dates {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET last_reminder_date = ? WHERE identity = ?`,
			toNullDate(&day), id,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
