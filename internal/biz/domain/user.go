package domain

import (
	"sort"
	"strings"
	"time"
)

// ApprovedUser represents a user allowed to talk to the bot
type ApprovedUser struct {
	Email   string
	Name    string
	AddedBy string
	AddedAt time.Time
}

// Roster is an immutable snapshot of approved users plus the admin set.
// Rebuilt wholesale on reload and swapped atomically by its owner.
type Roster struct {
	users  map[string]ApprovedUser // keyed by lowercased email
	admins map[string]struct{}     // lowercased admin emails
}

// NewRoster builds a roster snapshot
func NewRoster(users []ApprovedUser, adminEmails []string) *Roster {
	r := &Roster{
		users:  make(map[string]ApprovedUser, len(users)),
		admins: make(map[string]struct{}, len(adminEmails)),
	}
	for _, u := range users {
		r.users[strings.ToLower(u.Email)] = u
	}
	for _, e := range adminEmails {
		e = strings.TrimSpace(strings.ToLower(e))
		if e != "" {
			r.admins[e] = struct{}{}
		}
	}
	return r
}

// IsAdmin reports whether the email is in the admin set
func (r *Roster) IsAdmin(email string) bool {
	_, ok := r.admins[strings.ToLower(email)]
	return ok
}

// IsApproved reports whether the email may be processed.
// Admins are implicitly approved.
func (r *Roster) IsApproved(email string) bool {
	if r.IsAdmin(email) {
		return true
	}
	_, ok := r.users[strings.ToLower(email)]
	return ok
}

// Contains reports whether the email is in the approved user list itself
// (not counting implicit admin approval)
func (r *Roster) Contains(email string) bool {
	_, ok := r.users[strings.ToLower(email)]
	return ok
}

// Users returns the approved users sorted by email
func (r *Roster) Users() []ApprovedUser {
	out := make([]ApprovedUser, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}
