package todo

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Repository is the persistence contract. Implementations must keep every
// stored record satisfying the Todo invariants and must serialize mutations
// so no caller observes a record mid-write.
type Repository interface {
	// FindAll returns the user's todos filtered by status, in insertion
	// order. An unknown user yields an empty list, never an error.
	FindAll(ctx context.Context, userID string, status Status) ([]Todo, error)
	// FindByID returns the record and true, or a zero Todo and false.
	FindByID(ctx context.Context, id string) (Todo, bool, error)
	// Create validates the DTO, assigns id and timestamps, and stores the
	// record with completed=false and a trimmed title.
	Create(ctx context.Context, dto CreateTodoDTO) (Todo, error)
	// Update merges the present DTO fields into the record and refreshes
	// UpdatedAt. Returns ErrNotFound for an unknown id.
	Update(ctx context.Context, id string, dto UpdateTodoDTO) (Todo, error)
	// Delete removes the record permanently. Returns ErrNotFound for an
	// unknown id.
	Delete(ctx context.Context, id string) error
}

// MemoryRepository keeps all records in process memory. The RWMutex gives
// the required execution model: reads may run concurrently, mutations take
// the write lock and so never interleave.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]Todo
	order []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]Todo)}
}

func (r *MemoryRepository) FindAll(_ context.Context, userID string, status Status) ([]Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := []Todo{}
	for _, id := range r.order {
		t := r.items[id]
		if t.UserID != userID {
			continue
		}
		switch status {
		case StatusActive:
			if t.Completed {
				continue
			}
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		}
		todos = append(todos, t)
	}
	return todos, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (Todo, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	return t, ok, nil
}

func (r *MemoryRepository) Create(_ context.Context, dto CreateTodoDTO) (Todo, error) {
	if err := dto.Validate(); err != nil {
		return Todo{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ts := now()
	t := Todo{
		ID:        uuid.NewString(),
		UserID:    dto.UserID,
		Title:     strings.TrimSpace(dto.Title),
		Completed: false,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	r.items[t.ID] = t
	r.order = append(r.order, t.ID)
	return t, nil
}

func (r *MemoryRepository) Update(_ context.Context, id string, dto UpdateTodoDTO) (Todo, error) {
	if err := dto.Validate(); err != nil {
		return Todo{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok {
		return Todo{}, ErrNotFound
	}
	if dto.Title != nil {
		t.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.Completed != nil {
		t.Completed = *dto.Completed
	}
	t.UpdatedAt = now()
	r.items[id] = t
	return t, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
