package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"flightfare-core/internal/domain/entity"
)

type referenceDoc struct {
	Key   string    `bson:"key"`
	Array []float64 `bson:"array"`
}

// MongoReferenceStore reads the one-hot collections. Each collection stores
// its key under its own field name ("source", "destination", "airline").
type MongoReferenceStore struct {
	db *mongo.Database
}

func NewMongoReferenceStore(db *mongo.Database) *MongoReferenceStore {
	return &MongoReferenceStore{db: db}
}

func (s *MongoReferenceStore) FindSource(ctx context.Context, code string) (entity.ReferenceVector, error) {
	return s.findOne(ctx, entity.KindSource, code)
}

func (s *MongoReferenceStore) FindDestination(ctx context.Context, code string) (entity.ReferenceVector, error) {
	return s.findOne(ctx, entity.KindDestination, code)
}

// ListAirlines returns airlines in natural (insertion) order.
func (s *MongoReferenceStore) ListAirlines(ctx context.Context) ([]entity.ReferenceVector, error) {
	return s.list(ctx, entity.KindAirline)
}

func (s *MongoReferenceStore) ListKeys(ctx context.Context, kind entity.ReferenceKind) ([]string, error) {
	vectors, err := s.list(ctx, kind)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(vectors))
	for _, v := range vectors {
		keys = append(keys, v.Key)
	}
	return keys, nil
}

func (s *MongoReferenceStore) InsertMany(ctx context.Context, kind entity.ReferenceKind, vectors []entity.ReferenceVector) error {
	coll, field, err := s.collection(kind)
	if err != nil {
		return err
	}
	docs := make([]any, 0, len(vectors))
	for _, v := range vectors {
		docs = append(docs, bson.D{{Key: field, Value: v.Key}, {Key: "array", Value: v.Array}})
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: duplicate %s key", entity.ErrConflict, kind)
		}
		return fmt.Errorf("failed to insert %s vectors: %w", kind, err)
	}
	return nil
}

func (s *MongoReferenceStore) findOne(ctx context.Context, kind entity.ReferenceKind, key string) (entity.ReferenceVector, error) {
	coll, field, err := s.collection(kind)
	if err != nil {
		return entity.ReferenceVector{}, err
	}
	var doc referenceDoc
	err = coll.FindOne(ctx, bson.M{field: key}, options.FindOne().SetProjection(projection(field))).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity.ReferenceVector{}, fmt.Errorf("%w: unknown %s %q", entity.ErrResourceNotFound, kind, key)
	}
	if err != nil {
		return entity.ReferenceVector{}, fmt.Errorf("failed to find %s %q: %w", kind, key, err)
	}
	return entity.ReferenceVector{Key: doc.Key, Array: doc.Array}, nil
}

func (s *MongoReferenceStore) list(ctx context.Context, kind entity.ReferenceKind) ([]entity.ReferenceVector, error) {
	coll, field, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{}, options.Find().SetProjection(projection(field)))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s vectors: %w", kind, err)
	}
	var docs []referenceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s vectors: %w", kind, err)
	}
	out := make([]entity.ReferenceVector, 0, len(docs))
	for _, d := range docs {
		out = append(out, entity.ReferenceVector{Key: d.Key, Array: d.Array})
	}
	return out, nil
}

func (s *MongoReferenceStore) collection(kind entity.ReferenceKind) (*mongo.Collection, string, error) {
	switch kind {
	case entity.KindSource:
		return s.db.Collection(SourceCollection), "source", nil
	case entity.KindDestination:
		return s.db.Collection(DestinationCollection), "destination", nil
	case entity.KindAirline:
		return s.db.Collection(AirlineCollection), "airline", nil
	}
	return nil, "", fmt.Errorf("%w: unknown reference kind %q", entity.ErrInvalidRequest, kind)
}

// projection renames the kind-specific key field to "key" so one struct
// decodes every collection.
func projection(field string) bson.D {
	return bson.D{{Key: "_id", Value: 0}, {Key: "key", Value: "$" + field}, {Key: "array", Value: 1}}
}
