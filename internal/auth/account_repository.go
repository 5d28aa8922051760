package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/database"
)

// AccountRepository defines the persistence operations on accounts.
type AccountRepository interface {
	Create(ctx context.Context, acc *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	MarkVerified(ctx context.Context, email string) (*Account, error)
	RecordLogin(ctx context.Context, id string, at time.Time) (int64, error)
	Update(ctx context.Context, id string, changes AccountChanges) (*Account, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter AccountFilter) (*AccountPage, error)
	TopByLogins(ctx context.Context, n int) ([]Account, error)
	InactiveSince(ctx context.Context, cutoff time.Time) ([]Account, error)
	Count(ctx context.Context) (int, error)
}

// SQLAccountRepository implements AccountRepository on SQLite or PostgreSQL.
type SQLAccountRepository struct {
	db  *database.DB
	now func() time.Time
}

// NewAccountRepository creates an account repository on db.
func NewAccountRepository(db *database.DB) *SQLAccountRepository {
	return &SQLAccountRepository{db: db, now: time.Now}
}

// NewAccountID returns a fresh opaque account identifier.
func NewAccountID() string {
	return "usr-" + uuid.NewString()
}

// Create inserts acc. ID and timestamps are filled in when empty.
// A duplicate email yields ErrConflict.
func (r *SQLAccountRepository) Create(ctx context.Context, acc *Account) error {
	if acc.ID == "" {
		acc.ID = NewAccountID()
	}
	if acc.RegisteredAt.IsZero() {
		acc.RegisteredAt = r.now()
	}
	acc.RegisteredAt = acc.RegisteredAt.UTC().Truncate(time.Second)
	acc.UpdatedAt = acc.RegisteredAt

	var lastLogin any
	if acc.LastLoginAt != nil {
		lastLogin = formatTime(*acc.LastLoginAt)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, verified, is_admin, login_count, last_login_at, registered_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		acc.ID, acc.Name, acc.Email, acc.PasswordHash, acc.Verified, acc.IsAdmin,
		acc.LoginCount, lastLogin, formatTime(acc.RegisteredAt), formatTime(acc.UpdatedAt),
	)
	if err != nil {
		if r.db.Dialect().IsUniqueViolation(err) {
			return ErrConflict
		}
		return storageErr("creating account", err)
	}
	return nil
}

// GetByID retrieves an account by its identifier.
func (r *SQLAccountRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	return r.getAccount(ctx, "SELECT "+profileColumns+" FROM users WHERE id = ?", id)
}

// GetByEmail retrieves an account by its login identifier.
func (r *SQLAccountRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return r.getAccount(ctx, "SELECT "+profileColumns+" FROM users WHERE email = ?", email)
}

// MarkVerified sets the verification flag for email. Verifying an already
// verified account succeeds.
func (r *SQLAccountRepository) MarkVerified(ctx context.Context, email string) (*Account, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET verified = ?, updated_at = ? WHERE email = ?",
		true, formatTime(r.now()), email,
	)
	if err != nil {
		return nil, storageErr("verifying account", err)
	}
	if err := requireRow(result); err != nil {
		return nil, err
	}
	return r.GetByEmail(ctx, email)
}

// RecordLogin increments the login counter and stamps the last login in one
// statement, returning the new counter value.
func (r *SQLAccountRepository) RecordLogin(ctx context.Context, id string, at time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"UPDATE users SET login_count = login_count + 1, last_login_at = ? WHERE id = ? RETURNING login_count",
		formatTime(at), id,
	).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, storageErr("recording login", err)
	}
	return count, nil
}

// Update applies the supplied fields of changes to the account and returns
// the result. No supplied fields is a ValidationError.
func (r *SQLAccountRepository) Update(ctx context.Context, id string, changes AccountChanges) (*Account, error) {
	if changes.Empty() {
		return nil, NewValidationError("no fields to update", nil)
	}

	// Column assignments and their values grow together.
	var sets []string
	var args []any
	if changes.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *changes.Name)
	}
	if changes.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *changes.Email)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(r.now()), id)

	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		if r.db.Dialect().IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, storageErr("updating account", err)
	}
	if err := requireRow(result); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the account with id.
func (r *SQLAccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return storageErr("deleting account", err)
	}
	return requireRow(result)
}

// List returns one page of accounts matching filter and the total number of
// matches. Both statements run in one read transaction so the total agrees
// with the page.
func (r *SQLAccountRepository) List(ctx context.Context, filter AccountFilter) (*AccountPage, error) {
	filter = filter.Normalise()
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	d := r.db.Dialect()
	countSQL, countArgs, pageSQL, pageArgs := filter.ListQueries(d)

	var opts *sql.TxOptions
	if d == database.DialectPostgres {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	tx, err := r.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, storageErr("listing accounts", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	page := &AccountPage{Page: filter.Page, Limit: filter.Limit}
	if err := tx.QueryRowContext(ctx, d.Rebind(countSQL), countArgs...).Scan(&page.Total); err != nil {
		return nil, storageErr("counting accounts", err)
	}

	rows, err := tx.QueryContext(ctx, d.Rebind(pageSQL), pageArgs...)
	if err != nil {
		return nil, storageErr("listing accounts", err)
	}
	page.Rows, err = scanAccounts(rows)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("listing accounts", err)
	}
	return page, nil
}

// TopByLogins returns up to n accounts with the highest login counters.
func (r *SQLAccountRepository) TopByLogins(ctx context.Context, n int) ([]Account, error) {
	if n < 1 {
		n = TopLoginsLimit
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+profileColumns+" FROM users ORDER BY login_count DESC, id ASC LIMIT ?", n)
	if err != nil {
		return nil, storageErr("ranking accounts", err)
	}
	return scanAccounts(rows)
}

// InactiveSince returns accounts whose last login is before cutoff.
// Accounts that never logged in are not included.
func (r *SQLAccountRepository) InactiveSince(ctx context.Context, cutoff time.Time) ([]Account, error) {
	q := NewQuery("SELECT "+profileColumns+" FROM users").
		Where("last_login_at IS NOT NULL").
		Where("last_login_at < ?", formatTime(cutoff))
	query, args := q.Build("ORDER BY last_login_at ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("listing inactive accounts", err)
	}
	return scanAccounts(rows)
}

// Count returns the total number of accounts.
func (r *SQLAccountRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, storageErr("counting accounts", err)
	}
	return count, nil
}

func (r *SQLAccountRepository) getAccount(ctx context.Context, query string, args ...any) (*Account, error) {
	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageErr("reading account", err)
	}
	return acc, nil
}

// requireRow turns "no rows affected" into ErrNotFound.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return storageErr("reading affected rows", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccounts(rows *sql.Rows) ([]Account, error) {
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, storageErr("scanning account", err)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating accounts", err)
	}
	return accounts, nil
}

func scanAccount(s scanner) (*Account, error) {
	var acc Account
	var lastLogin sql.NullString
	var registeredAt, updatedAt string

	if err := s.Scan(&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash,
		&acc.Verified, &acc.IsAdmin, &acc.LoginCount, &lastLogin,
		&registeredAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if acc.RegisteredAt, err = parseTime(registeredAt); err != nil {
		return nil, fmt.Errorf("parsing registered_at: %w", err)
	}
	if acc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	if lastLogin.Valid {
		t, err := parseTime(lastLogin.String)
		if err != nil {
			return nil, fmt.Errorf("parsing last_login_at: %w", err)
		}
		acc.LastLoginAt = &t
	}
	return &acc, nil
}
