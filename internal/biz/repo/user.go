package repo

import (
	"context"

	"github.com/webexlabs/webex-ai-bot/internal/biz/domain"
)

// UserRepo is the approved-user store interface
// Responsible for approved-user persistence (SQLite)
type UserRepo interface {
	// ListAll returns every approved user
	ListAll(ctx context.Context) ([]domain.ApprovedUser, error)

	// Add inserts or replaces an approved user
	Add(ctx context.Context, user domain.ApprovedUser) error

	// Remove deletes a user by email. Removing an absent email is not an error.
	Remove(ctx context.Context, email string) error

	// Close closes the store
	Close() error
}
