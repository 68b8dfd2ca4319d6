package usecase

import (
	"fmt"
	"sync/atomic"

	"github.com/webexlabs/webex-ai-bot/internal/biz/domain"
)

// CatalogLoader loads a full personality catalog from its external source
type CatalogLoader interface {
	Load() (*domain.Catalog, error)
}

// Resolver maps sender emails to personalities.
//
// The catalog snapshot is replaced wholesale on reload; resolution for a
// message in flight sees either the old or the new catalog in full.
type Resolver struct {
	loader  CatalogLoader
	catalog atomic.Pointer[domain.Catalog]
}

// NewResolver creates a resolver and performs the initial load.
// A failed initial load is fatal.
func NewResolver(loader CatalogLoader) (*Resolver, error) {
	r := &Resolver{loader: loader}
	if err := r.Reload(); err != nil {
		return nil, fmt.Errorf("initial personality load: %w", err)
	}
	return r, nil
}

// Resolve returns the personality for a sender email
func (r *Resolver) Resolve(email string) domain.Personality {
	return r.catalog.Load().Resolve(email)
}

// Get looks up a personality by key, for the "use prompt" override
func (r *Resolver) Get(key string) (domain.Personality, bool) {
	return r.catalog.Load().Get(key)
}

// List returns all personalities sorted by key
func (r *Resolver) List() []domain.Personality {
	return r.catalog.Load().List()
}

// Reload replaces the catalog snapshot. On failure the previous snapshot
// stays active.
func (r *Resolver) Reload() error {
	catalog, err := r.loader.Load()
	if err != nil {
		return fmt.Errorf("load personalities: %w", err)
	}
	r.catalog.Store(catalog)
	return nil
}
