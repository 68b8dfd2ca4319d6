package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/webexlabs/webex-ai-bot/internal/biz/domain"
	"github.com/webexlabs/webex-ai-bot/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// userRepo implements the approved-user repository
type userRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new approved-user repository
func NewUserRepo(dbPath string) (repo.UserRepo, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS approved_users (
			email TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			added_by TEXT NOT NULL DEFAULT '',
			added_at INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &userRepo{db: db}, nil
}

// ListAll returns every approved user
func (r *userRepo) ListAll(ctx context.Context) ([]domain.ApprovedUser, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT email, name, added_by, added_at
		FROM approved_users
		ORDER BY email
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.ApprovedUser
	for rows.Next() {
		var u domain.ApprovedUser
		var addedAt int64
		if err := rows.Scan(&u.Email, &u.Name, &u.AddedBy, &addedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.AddedAt = time.Unix(addedAt, 0)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	return users, nil
}

// Add inserts or replaces an approved user.
// Emails are stored lowercased so the key is case-insensitive.
func (r *userRepo) Add(ctx context.Context, user domain.ApprovedUser) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO approved_users (email, name, added_by, added_at)
		VALUES (?, ?, ?, ?)
	`,
		strings.ToLower(user.Email),
		user.Name,
		user.AddedBy,
		user.AddedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}
	return nil
}

// Remove deletes a user by email
func (r *userRepo) Remove(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM approved_users WHERE email = ?`, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("failed to remove user: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *userRepo) Close() error {
	return r.db.Close()
}
