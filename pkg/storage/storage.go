package storage

import (
	"context"
	"errors"

	"aicd-directory/pkg/models"
)

// ErrUnavailable is returned when the backing medium cannot be reached or
// written. Callers should treat it as a storage failure, not bad input.
var ErrUnavailable = errors.New("storage unavailable")

// Store is the persistence abstraction for the content tree. The tree is
// only ever read or replaced wholesale; there is no partial-update path.
type Store interface {
	// Load returns the current tree. A never-initialized store returns an
	// empty tree, not an error. A store that cannot reach its backing
	// medium may return fallback content alongside a non-nil error
	// wrapping ErrUnavailable; callers must not treat such content as
	// durable.
	Load(ctx context.Context) ([]models.Section, error)
	// Replace atomically overwrites the entire stored tree.
	Replace(ctx context.Context, sections []models.Section) error
	// Degraded reports whether the store is serving placeholder or
	// in-memory data because the backing medium is unreachable.
	Degraded() bool
	Close(ctx context.Context) error
}
