package tasks

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("task not found")

// Repository owns the authoritative task collection. List returns tasks in
// insertion order, most recently inserted first.
type Repository interface {
	ReplaceAll(ctx context.Context, collection []Task) error
	List(ctx context.Context) ([]Task, error)
	Get(ctx context.Context, id string) (Task, error)
	Insert(ctx context.Context, t Task) error
	Update(ctx context.Context, t Task) error
	Delete(ctx context.Context, id string) error
}

// MemoryRepository is the default backing store: the whole collection lives
// in process memory, which is the mode the app ships in when no database is
// configured.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []Task
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: []Task{}}
}

func (r *MemoryRepository) ReplaceAll(_ context.Context, collection []Task) error {
	items := make([]Task, len(collection))
	copy(items, collection)
	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Task, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.items {
		if t.ID == id {
			return t, nil
		}
	}
	return Task{}, ErrNotFound
}

func (r *MemoryRepository) Insert(_ context.Context, t Task) error {
	r.mu.Lock()
	r.items = append([]Task{t}, r.items...)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, t Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == t.ID {
			r.items[i] = t
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes the task when present and is a no-op otherwise: deleting
// an already-gone task is treated as success, not an error.
func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}
