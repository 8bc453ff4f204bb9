package store

import (
	"context"
	"errors"

	"github.com/ihiteshgupta/learnflow/internal/auth"
)

var (
	// ErrNotFound is returned when no user matches the key.
	ErrNotFound = errors.New("user not found")
	// ErrAlreadyExists is returned on duplicate email registration.
	ErrAlreadyExists = errors.New("user already exists")
)

// Store is the persistence interface for learner accounts.
// Error Contract:
// - FindByEmail and FindByID return ErrNotFound when no record exists
// - Save returns ErrAlreadyExists for a duplicate email
type Store interface {
	Save(ctx context.Context, u *auth.User) error
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
	FindByID(ctx context.Context, id string) (*auth.User, error)
}
