package repository

import (
	"context"

	"foodieapi/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors from driver errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// DuplicateKeyError is returned when an insert or update violates a unique
// index. Field names the offending field when it could be determined.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return string(ErrDuplicateKey)
	}
	return "duplicate key on field " + e.Field
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// ResourceRepository is the uniform persistence surface every resource
// collection is served through. One implementation, parameterized by the
// document type, replaces the per-collection repositories this API would
// otherwise duplicate.
type ResourceRepository[T any] interface {
	// GetAll returns every document in the collection, newest first.
	// An empty collection yields an empty slice, not an error.
	GetAll(ctx context.Context) ([]T, error)
	// GetByID returns one document or ErrNotFound.
	GetByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	// Create inserts doc with a generated id and timestamps and returns
	// the new id. Unique index violations surface as *DuplicateKeyError.
	Create(ctx context.Context, doc *T) (primitive.ObjectID, error)
	// Update applies fields as a shallow $set over the stored document,
	// refreshes updatedAt, and returns the merged document.
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*T, error)
	// Delete removes one document or returns ErrNotFound.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// GetByProviderOrEmail matches an existing user by a third-party
	// provider id (githubId or facebookId) or, failing that, by email.
	GetByProviderOrEmail(ctx context.Context, providerField, providerID, email string) (*domain.User, error)
	// Update persists changes to an existing user.
	Update(ctx context.Context, user *domain.User) error
}
