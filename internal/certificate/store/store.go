package store

import (
	"context"
	"errors"

	"github.com/ihiteshgupta/learnflow/internal/certificate"
)

// ErrNotFound is returned when no certificate exists for the given key.
var ErrNotFound = errors.New("certificate not found")

// Store is the persistence interface for issued certifications.
// Error Contract:
// - FindByCredentialID returns ErrNotFound when no record exists
// - Other methods return nil on success or wrapped errors on failure
type Store interface {
	Save(ctx context.Context, cert *certificate.Certification) error
	FindByCredentialID(ctx context.Context, credentialID string) (*certificate.Certification, error)
	ListByUser(ctx context.Context, userID string) ([]*certificate.Certification, error)
}
