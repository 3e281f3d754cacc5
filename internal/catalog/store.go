package catalog

import (
	"context"
	"sync"

	"taller/internal/core/apperror"
	"taller/pkg/logger"
)

// Source loads reference data from the ERP backend.
type Source interface {
	ListMaterials(ctx context.Context) ([]Material, error)
	ListProviders(ctx context.Context) ([]Provider, error)
}

// Store keeps an in-memory snapshot of the catalog. Reads are served from the
// snapshot without touching the network; Refresh replaces it atomically.
type Store struct {
	source Source

	mu        sync.RWMutex
	materials []Material
	providers []Provider
	byID      map[int64]Material
	provByID  map[int64]Provider
}

// NewStore creates an empty store backed by the given source.
func NewStore(source Source) *Store {
	return &Store{
		source:   source,
		byID:     make(map[int64]Material),
		provByID: make(map[int64]Provider),
	}
}

// Refresh reloads materials and providers from the ERP backend.
func (s *Store) Refresh(ctx context.Context) error {
	materials, err := s.source.ListMaterials(ctx)
	if err != nil {
		return err
	}
	providers, err := s.source.ListProviders(ctx)
	if err != nil {
		return err
	}

	byID := make(map[int64]Material, len(materials))
	for _, m := range materials {
		byID[m.ID] = m
	}
	provByID := make(map[int64]Provider, len(providers))
	for _, p := range providers {
		provByID[p.ID] = p
	}

	s.mu.Lock()
	s.materials = materials
	s.providers = providers
	s.byID = byID
	s.provByID = provByID
	s.mu.Unlock()

	logger.Info(ctx, "catalog snapshot refreshed",
		"materials", len(materials),
		"providers", len(providers))

	return nil
}

// Materials returns a copy of the material snapshot.
func (s *Store) Materials() []Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Material, len(s.materials))
	copy(out, s.materials)
	return out
}

// Providers returns a copy of the provider snapshot.
func (s *Store) Providers() []Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Provider, len(s.providers))
	copy(out, s.providers)
	return out
}

// MaterialByID looks up a material in the snapshot.
func (s *Store) MaterialByID(id int64) (Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	if !ok {
		return Material{}, apperror.NewNotFound("material", id)
	}
	return m, nil
}

// ProviderByID looks up a provider in the snapshot.
func (s *Store) ProviderByID(id int64) (Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.provByID[id]
	if !ok {
		return Provider{}, apperror.NewNotFound("provider", id)
	}
	return p, nil
}

// Add inserts a newly created material into the snapshot so the session sees it
// immediately, without a full refresh round-trip.
func (s *Store) Add(m Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials = append(s.materials, m)
	s.byID[m.ID] = m
}
