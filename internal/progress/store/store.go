package store

import (
	"context"
	"errors"

	"github.com/ihiteshgupta/learnflow/internal/progress"
)

// ErrNotFound is returned when no progress record exists for the user.
var ErrNotFound = errors.New("progress not found")

// Store is the persistence interface for learner progress records.
// Error Contract:
// - Get returns ErrNotFound when no record exists
// - Save upserts and returns nil on success
// - List returns every record; the sweep worker iterates it nightly
type Store interface {
	Get(ctx context.Context, userID string) (*progress.UserProgress, error)
	Save(ctx context.Context, p *progress.UserProgress) error
	List(ctx context.Context) ([]*progress.UserProgress, error)
}
