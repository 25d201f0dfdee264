package service

import (
	"context"
	"errors"

	"foodieapi/internal/repository"
	"foodieapi/internal/validation"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrResourceNotFound = errors.New("resource not found")
)

// ResourceService exposes the five canonical operations over one resource
// collection. A single generic implementation serves every registered
// resource type.
type ResourceService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id primitive.ObjectID) (*T, error)
	Create(ctx context.Context, doc *T) (*T, error)
	// Update shallow-merges the supplied fields over the stored document.
	// Fields absent from the map are preserved; nested values supplied in
	// the map replace the stored value whole.
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*T, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// resourceService implements ResourceService on top of a ResourceRepository.
type resourceService[T any] struct {
	repo repository.ResourceRepository[T]
}

// NewResourceService creates a resource service over repo.
func NewResourceService[T any](repo repository.ResourceRepository[T]) ResourceService[T] {
	return &resourceService[T]{repo: repo}
}

// List retrieves every document. An empty collection is a success with an
// empty slice.
func (s *resourceService[T]) List(ctx context.Context) ([]T, error) {
	return s.repo.GetAll(ctx)
}

// Get retrieves a single document by id.
func (s *resourceService[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Create validates and persists a new document, then re-fetches it so the
// caller sees the generated id and timestamps.
func (s *resourceService[T]) Create(ctx context.Context, doc *T) (*T, error) {
	if errs := validation.Struct(doc); errs != nil {
		return nil, errs
	}

	id, err := s.repo.Create(ctx, doc)
	if err != nil {
		return nil, mapDuplicateKey(err)
	}

	return s.repo.GetByID(ctx, id)
}

// Update fetches the document, merges the supplied fields over it, validates
// the merged result, and persists the changed fields.
func (s *resourceService[T]) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*T, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	stripProtected(fields)

	merged, err := mergeShallow(existing, fields)
	if err != nil {
		return nil, err
	}
	if errs := validation.Struct(merged); errs != nil {
		return nil, errs
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, mapDuplicateKey(err)
	}
	return updated, nil
}

// Delete removes a document by id.
func (s *resourceService[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResourceNotFound
		}
		return err
	}
	return nil
}

// stripProtected drops identifier and timestamp keys a client must not set.
func stripProtected(fields map[string]any) {
	delete(fields, "id")
	delete(fields, "_id")
	delete(fields, "createdAt")
	delete(fields, "updatedAt")
}

// mergeShallow overlays fields onto doc one key deep and decodes the result
// back into the document type so it can be validated before persisting.
func mergeShallow[T any](doc *T, fields map[string]any) (*T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var current bson.M
	if err := bson.Unmarshal(raw, &current); err != nil {
		return nil, err
	}

	for key, value := range fields {
		current[key] = value
	}

	raw, err = bson.Marshal(current)
	if err != nil {
		return nil, err
	}
	var merged T
	if err := bson.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// mapDuplicateKey converts a storage-layer unique index violation into a
// field-addressable validation error. Races between concurrent creates on
// a unique field land here via the second insert's rejection.
func mapDuplicateKey(err error) error {
	var dup *repository.DuplicateKeyError
	if errors.As(err, &dup) {
		field := dup.Field
		if field == "" {
			field = "payload"
		}
		return validation.Errors{field: "Is already taken"}
	}
	return err
}
