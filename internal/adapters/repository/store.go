// Package repository defines the generic record store and its in-memory
// implementation.
package repository

import "context"

// Keyed is implemented by records that carry their own identifier.
type Keyed interface {
	Key() string
}

// Repository provides CRUD access to records of one type.
type Repository[T Keyed] interface {
	// List returns all records in insertion order. The slice is a copy.
	List(ctx context.Context) ([]T, error)

	// Get returns the record with id, or ErrNotFound.
	Get(ctx context.Context, id string) (T, error)

	// Add stores a new record. Returns ErrAlreadyExists if the key is taken
	// and ErrInvalidID if it is empty.
	Add(ctx context.Context, item T) (T, error)

	// Update replaces an existing record in place, keeping its position.
	// Returns ErrNotFound for unknown keys.
	Update(ctx context.Context, item T) (T, error)

	// Remove deletes the record with id, or returns ErrNotFound.
	Remove(ctx context.Context, id string) error

	// Count returns the number of stored records.
	Count(ctx context.Context) int
}
