package categories

import (
	"context"
	"sync"

	"github.com/marcus/taskboard/internal/tasks"
)

// MemoryStore keeps categories in insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	items []*tasks.Category
}

// NewMemoryStore returns a store holding cats, in order.
func NewMemoryStore(cats ...*tasks.Category) *MemoryStore {
	s := &MemoryStore{}
	for _, c := range cats {
		if c != nil && s.indexOf(c.ID()) < 0 {
			s.items = append(s.items, c)
		}
	}
	return s
}

func (s *MemoryStore) indexOf(id int) int {
	for i, c := range s.items {
		if c.ID() == id {
			return i
		}
	}
	return -1
}

// List returns all categories in insertion order.
func (s *MemoryStore) List(_ context.Context) ([]*tasks.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*tasks.Category, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Get returns the category with id.
func (s *MemoryStore) Get(_ context.Context, id int) (*tasks.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, notFound(id)
	}
	return s.items[i], nil
}

// Add appends c.
func (s *MemoryStore) Add(_ context.Context, c *tasks.Category) error {
	if c == nil {
		return nilCategory()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(c.ID()) >= 0 {
		return duplicate(c.ID())
	}
	s.items = append(s.items, c)
	return nil
}

// Update copies c's title onto the stored category with the same id.
func (s *MemoryStore) Update(_ context.Context, c *tasks.Category) error {
	if c == nil {
		return nilCategory()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(c.ID())
	if i < 0 {
		return notFound(c.ID())
	}
	s.items[i].Title = c.Title
	return nil
}

// Delete removes the category with id.
func (s *MemoryStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// NextID returns one more than the largest id in the store.
func (s *MemoryStore) NextID(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	maxID := 0
	for _, c := range s.items {
		if c.ID() > maxID {
			maxID = c.ID()
		}
	}
	return maxID + 1, nil
}
