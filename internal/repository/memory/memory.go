// Package memory provides in-memory implementations of the repository
// interfaces. They back the service and handler tests and behave like the
// Mongo repositories: shallow $set-style updates, newest-first listing,
// and duplicate-key rejection on unique fields.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"foodieapi/internal/domain"
	"foodieapi/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResourceRepository stores documents as bson maps guarded by a mutex.
type ResourceRepository[T any] struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]bson.M
}

// NewResourceRepository creates an empty in-memory resource repository.
func NewResourceRepository[T any]() *ResourceRepository[T] {
	return &ResourceRepository[T]{docs: make(map[primitive.ObjectID]bson.M)}
}

// Len reports how many documents are stored. Handy for side-effect checks.
func (r *ResourceRepository[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

func (r *ResourceRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]primitive.ObjectID, 0, len(r.docs))
	for id := range r.docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := r.docs[ids[i]]["createdAt"].(primitive.DateTime)
		b, _ := r.docs[ids[j]]["createdAt"].(primitive.DateTime)
		return a > b
	})

	out := []T{}
	for _, id := range ids {
		var doc T
		if err := decodeMap(r.docs[id], &doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (r *ResourceRepository[T]) GetByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fields, ok := r.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	var doc T
	if err := decodeMap(fields, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *ResourceRepository[T]) Create(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	fields, err := encodeMap(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}

	id := primitive.NewObjectID()
	now := primitive.NewDateTimeFromTime(time.Now().UTC())
	fields["_id"] = id
	fields["createdAt"] = now
	fields["updatedAt"] = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[id] = fields
	return id, nil
}

func (r *ResourceRepository[T]) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	for key, value := range fields {
		if key == "_id" || key == "id" || key == "createdAt" {
			continue
		}
		stored[key] = value
	}
	stored["updatedAt"] = primitive.NewDateTimeFromTime(time.Now().UTC())

	var doc T
	if err := decodeMap(stored, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *ResourceRepository[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func encodeMap(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func decodeMap(fields bson.M, out any) error {
	raw, err := bson.Marshal(fields)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// UserRepository is an in-memory user store with unique-email semantics.
type UserRepository struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.Email != "" {
		for _, existing := range r.users {
			if existing.Email == user.Email {
				return primitive.NilObjectID, &repository.DuplicateKeyError{Field: "email"}
			}
		}
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := user
	return &u, nil
}

func (r *UserRepository) GetByProviderOrEmail(ctx context.Context, providerField, providerID, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		switch providerField {
		case "githubId":
			if user.GithubID == providerID {
				u := user
				return &u, nil
			}
		case "facebookId":
			if user.FacebookID == providerID {
				u := user
				return &u, nil
			}
		}
	}
	if email != "" {
		for _, user := range r.users {
			if user.Email == email {
				u := user
				return &u, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}
