package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/holical/pkg/metrics"
)

const defaultCapacity = 64

// MemoryStore is a thread-safe in-memory Repository that keeps records in
// insertion order.
type MemoryStore[T Keyed] struct {
	mu     sync.RWMutex
	items  map[string]T
	order  []string
	closed bool
	opts   options
}

// NewMemoryStore creates an empty store.
func NewMemoryStore[T Keyed](opts ...Option) *MemoryStore[T] {
	o := options{name: "records", capacity: defaultCapacity, metrics: true}
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryStore[T]{
		items: make(map[string]T, o.capacity),
		order: make([]string, 0, o.capacity),
		opts:  o,
	}
}

// List returns a copy of all records in insertion order.
func (s *MemoryStore[T]) List(ctx context.Context) ([]T, error) {
	defer s.observe("list", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, s.fail("list", ErrClosed)
	}
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

// Get returns a single record.
func (s *MemoryStore[T]) Get(ctx context.Context, id string) (T, error) {
	defer s.observe("get", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero T
	if s.closed {
		return zero, s.fail("get", ErrClosed)
	}
	item, ok := s.items[id]
	if !ok {
		return zero, s.fail("get", fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	return item, nil
}

// Add appends a new record.
func (s *MemoryStore[T]) Add(ctx context.Context, item T) (T, error) {
	defer s.observe("add", time.Now())
	id := item.Key()
	var zero T
	if strings.TrimSpace(id) == "" {
		return zero, s.fail("add", ErrInvalidID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return zero, s.fail("add", ErrClosed)
	}
	if _, ok := s.items[id]; ok {
		return zero, s.fail("add", fmt.Errorf("%w: %s", ErrAlreadyExists, id))
	}
	s.items[id] = item
	s.order = append(s.order, id)
	s.gauge()
	return item, nil
}

// Update replaces an existing record.
func (s *MemoryStore[T]) Update(ctx context.Context, item T) (T, error) {
	defer s.observe("update", time.Now())
	id := item.Key()
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return zero, s.fail("update", ErrClosed)
	}
	if _, ok := s.items[id]; !ok {
		return zero, s.fail("update", fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	s.items[id] = item
	return item, nil
}

// Remove deletes a record.
func (s *MemoryStore[T]) Remove(ctx context.Context, id string) error {
	defer s.observe("remove", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.fail("remove", ErrClosed)
	}
	if _, ok := s.items[id]; !ok {
		return s.fail("remove", fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	delete(s.items, id)
	for i, k := range s.order {
		if k == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.gauge()
	return nil
}

// Count returns the number of records.
func (s *MemoryStore[T]) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Close drops all records; later calls fail with ErrClosed.
func (s *MemoryStore[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.items = nil
	s.order = nil
	s.gauge()
	return nil
}

func (s *MemoryStore[T]) observe(op string, start time.Time) {
	if !s.opts.metrics {
		return
	}
	metrics.RecordRepositoryOperation(s.opts.name, op, float64(time.Since(start).Microseconds())/1000)
}

func (s *MemoryStore[T]) fail(op string, err error) error {
	if s.opts.metrics {
		metrics.RecordRepositoryError(s.opts.name, op)
	}
	return err
}

// gauge must be called with s.mu held.
func (s *MemoryStore[T]) gauge() {
	if s.opts.metrics {
		metrics.UpdateRepositoryRecords(s.opts.name, len(s.items))
	}
}
