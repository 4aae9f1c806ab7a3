package projects

import (
	"context"
	"errors"
	"time"
)

// Project is the only domain entity. The id is assigned by the storage
// backend on creation and never changes.
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Update carries the optional fields of a PATCH. A nil field means
// "leave unchanged"; at least one field must be set.
type Update struct {
	Name *string
}

// Empty reports whether the update carries no fields at all.
func (u Update) Empty() bool {
	return u.Name == nil
}

var (
	// ErrNotFound is returned when no project matches the given id.
	ErrNotFound = errors.New("project not found")

	// ErrInvalidName is returned when a name is empty after trimming.
	ErrInvalidName = errors.New("name must be a non-empty string")

	// ErrNoFields is returned when an update supplies nothing to change.
	ErrNoFields = errors.New("no updatable fields supplied")
)

// Store is the persistence adapter contract. Implementations are the sole
// writers of project state; handlers never cache rows between requests.
type Store interface {
	// List returns all projects ordered by ascending id.
	List(ctx context.Context) ([]Project, error)

	// Create inserts a project and returns the stored row including the
	// generated id and timestamps.
	Create(ctx context.Context, name string) (*Project, error)

	// Update applies the given fields, refreshes updated_at and returns the
	// full row. ErrNotFound if no row matches, ErrNoFields if the update is
	// empty.
	Update(ctx context.Context, id int64, upd Update) (*Project, error)

	// Delete removes the row. ErrNotFound if no row matches.
	Delete(ctx context.Context, id int64) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection or pool.
	Close() error
}
