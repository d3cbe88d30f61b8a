// Package task provides task item persistence and the task service.
package task

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound indicates the requested task id does not exist.
var ErrNotFound = errors.New("task not found")

// Item represents a single task row.
type Item struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Complete bool   `json:"complete"`
}

// Store defines task persistence operations.
type Store interface {
	// List returns all tasks ordered ascending by id.
	List(ctx context.Context) ([]*Item, error)

	// Get returns the task with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*Item, error)

	// Create inserts a new task and returns it with the assigned id.
	Create(ctx context.Context, title string, complete bool) (*Item, error)

	// Save overwrites an existing task row.
	Save(ctx context.Context, item *Item) error

	// Delete removes the task with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// Close releases the underlying database handle.
	Close() error
}

// Service exposes CRUD operations over a Store. Each operation performs at
// most one logical read and one logical write.
type Service struct {
	store Store
}

// NewService creates a new task service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns all tasks ordered ascending by id.
func (s *Service) List(ctx context.Context) ([]*Item, error) {
	return s.store.List(ctx)
}

// Get returns a single task by id.
func (s *Service) Get(ctx context.Context, id int64) (*Item, error) {
	return s.store.Get(ctx, id)
}

// Create persists a new task. Completion defaults to false unless supplied.
func (s *Service) Create(ctx context.Context, title string, complete bool) (*Item, error) {
	return s.store.Create(ctx, title, complete)
}

// Update overwrites only the fields explicitly supplied: title applies only
// when non-empty after trimming, complete applies only when non-nil. Returns
// the updated record, or ErrNotFound for an absent id.
func (s *Service) Update(ctx context.Context, id int64, title *string, complete *bool) (*Item, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != nil && strings.TrimSpace(*title) != "" {
		item.Title = *title
	}
	if complete != nil {
		item.Complete = *complete
	}

	if err := s.store.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a task by id. Returns ErrNotFound when the id is absent.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}
