package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/webexlabs/webex-ai-bot/internal/biz/domain"
	"github.com/webexlabs/webex-ai-bot/internal/biz/repo"
)

// Gate handles admission control: approved-user and admin checks.
//
// The roster snapshot is replaced wholesale; readers in flight see either
// the old or the new snapshot in full, never a mixture.
type Gate struct {
	userRepo    repo.UserRepo
	adminEmails []string
	roster      atomic.Pointer[domain.Roster]
}

// NewGate creates a gate and performs the initial load.
// A failed initial load is fatal: the process must not start on a guessed
// user list.
func NewGate(ctx context.Context, userRepo repo.UserRepo, adminEmails []string) (*Gate, error) {
	g := &Gate{
		userRepo:    userRepo,
		adminEmails: adminEmails,
	}
	if err := g.Reload(ctx); err != nil {
		return nil, fmt.Errorf("initial user load: %w", err)
	}
	return g, nil
}

// IsApproved reports whether the sender may be processed
func (g *Gate) IsApproved(email string) bool {
	return g.roster.Load().IsApproved(email)
}

// IsAdmin reports whether the sender holds admin privilege
func (g *Gate) IsAdmin(email string) bool {
	return g.roster.Load().IsAdmin(email)
}

// Users returns the current approved users
func (g *Gate) Users() []domain.ApprovedUser {
	return g.roster.Load().Users()
}

// AddUser approves a user. Adding an already-present email is a no-op
// success; the return value reports whether the list actually changed.
func (g *Gate) AddUser(ctx context.Context, email, addedBy string) (bool, error) {
	if g.roster.Load().Contains(email) {
		return false, nil
	}

	user := domain.ApprovedUser{
		Email:   email,
		Name:    email,
		AddedBy: addedBy,
		AddedAt: time.Now(),
	}
	if err := g.userRepo.Add(ctx, user); err != nil {
		return false, fmt.Errorf("add user: %w", err)
	}
	if err := g.Reload(ctx); err != nil {
		return false, err
	}
	fmt.Printf("[Gate] Added user %s (by %s)\n", email, addedBy)
	return true, nil
}

// RemoveUser removes a user. Removing an absent email is a no-op success;
// the return value reports whether the list actually changed.
func (g *Gate) RemoveUser(ctx context.Context, email string) (bool, error) {
	if !g.roster.Load().Contains(email) {
		return false, nil
	}

	if err := g.userRepo.Remove(ctx, email); err != nil {
		return false, fmt.Errorf("remove user: %w", err)
	}
	if err := g.Reload(ctx); err != nil {
		return false, err
	}
	fmt.Printf("[Gate] Removed user %s\n", email)
	return true, nil
}

// Reload replaces the roster snapshot from the store. On failure the
// previous snapshot stays active.
func (g *Gate) Reload(ctx context.Context) error {
	users, err := g.userRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	g.roster.Store(domain.NewRoster(users, g.adminEmails))
	return nil
}
