package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	models "shopfront/model"
)

// MemoryStore is an in-memory Store. It is safe for concurrent use and is
// meant for tests and local development.
type MemoryStore struct {
	mu    sync.RWMutex
	items []models.Product
	index map[string]int
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: make(map[string]int)}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) InsertOne(_ context.Context, in models.ProductInput) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.NewProduct(uuid.NewString(), in, time.Now().UTC())
	s.appendLocked(p)
	return p, nil
}

func (s *MemoryStore) InsertMany(_ context.Context, in []models.ProductInput) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	out := make([]models.Product, 0, len(in))
	for _, item := range in {
		p := models.NewProduct(uuid.NewString(), item, now)
		s.appendLocked(p)
		out = append(out, p)
	}
	return out, nil
}

func (s *MemoryStore) appendLocked(p models.Product) {
	s.index[p.ID] = len(s.items)
	s.items = append(s.items, p)
}

func (s *MemoryStore) FindAll(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return s.items[i], nil
}

func (s *MemoryStore) UpdateByID(_ context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	p := patch.Apply(s.items[i])
	p.UpdatedAt = time.Now().UTC()
	s.items[i] = p
	return p, nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return ErrNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, id)
	// shift indexes of everything after the removed slot
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ID] = j
	}
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.items)), nil
}
