package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"foodieapi/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoResourceRepository implements repository.ResourceRepository for any
// document type. Each resource collection gets its own instance; the code
// is shared.
type mongoResourceRepository[T any] struct {
	collection *mongo.Collection
}

// NewResourceRepository creates a resource repository over the named
// collection of db.
func NewResourceRepository[T any](db *mongo.Database, collectionName string) repository.ResourceRepository[T] {
	return &mongoResourceRepository[T]{
		collection: db.Collection(collectionName),
	}
}

// GetAll retrieves every document in the collection, newest first.
func (r *mongoResourceRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}

// GetByID retrieves a document by its ObjectID.
func (r *mongoResourceRepository[T]) GetByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var doc T
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// Create inserts a new document with a generated id and timestamps.
func (r *mongoResourceRepository[T]) Create(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	fields, err := toBsonMap(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}

	id := primitive.NewObjectID()
	now := time.Now().UTC()
	fields["_id"] = id
	fields["createdAt"] = now
	fields["updatedAt"] = now

	if _, err := r.collection.InsertOne(ctx, fields); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, &repository.DuplicateKeyError{Field: duplicateKeyField(err)}
		}
		return primitive.NilObjectID, err
	}

	return id, nil
}

// Update applies fields as a shallow $set over the stored document and
// returns the merged result. Fields absent from the map are untouched.
func (r *mongoResourceRepository[T]) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*T, error) {
	set := bson.M{}
	for key, value := range fields {
		set[key] = value
	}
	delete(set, "_id")
	delete(set, "id")
	delete(set, "createdAt")
	set["updatedAt"] = time.Now().UTC()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &repository.DuplicateKeyError{Field: duplicateKeyField(err)}
		}
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, repository.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes a document by id.
func (r *mongoResourceRepository[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// toBsonMap round-trips a document through bson so inserts can overwrite
// the id and timestamp fields without knowing the concrete type.
func toBsonMap(doc any) (bson.M, error) {
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

// indexNamePattern matches the index name inside a Mongo E11000 message,
// e.g. "... index: email_1 dup key: ...".
var indexNamePattern = regexp.MustCompile(`index: ([^ ]+)`)

// duplicateKeyField extracts the field behind a unique index violation from
// the driver's error string. Default index names are "<field>_<direction>".
func duplicateKeyField(err error) string {
	match := indexNamePattern.FindStringSubmatch(err.Error())
	if len(match) < 2 {
		return ""
	}
	name := match[1]
	if i := strings.LastIndex(name, "_"); i > 0 {
		return name[:i]
	}
	return name
}
