package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"flightfare-core/internal/domain/entity"
)

type userDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Email            string             `bson:"email"`
	Password         string             `bson:"password"`
	EmailConfirmedAt *time.Time         `bson:"email_confirmed_at"`
	Disabled         bool               `bson:"disabled"`
	CreatedAt        time.Time          `bson:"created_at"`
}

func (d userDoc) toEntity() *entity.User {
	return &entity.User{
		ID:               d.ID.Hex(),
		Email:            d.Email,
		PasswordHash:     d.Password,
		EmailConfirmedAt: d.EmailConfirmedAt,
		Disabled:         d.Disabled,
		CreatedAt:        d.CreatedAt,
	}
}

type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection(UserCollection)}
}

func (s *MongoUserStore) ByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) ByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *MongoUserStore) Create(ctx context.Context, user *entity.User) error {
	res, err := s.coll.InsertOne(ctx, userDoc{
		Email:            user.Email,
		Password:         user.PasswordHash,
		EmailConfirmedAt: user.EmailConfirmedAt,
		Disabled:         user.Disabled,
		CreatedAt:        user.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: user with that email already exists", entity.ErrConflict)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	return nil
}

func (s *MongoUserStore) Save(ctx context.Context, user *entity.User) error {
	oid, err := parseObjectID(user.ID)
	if err != nil {
		return err
	}
	res, err := s.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"password":           user.PasswordHash,
		"email_confirmed_at": user.EmailConfirmedAt,
		"disabled":           user.Disabled,
	}})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user %s", entity.ErrResourceNotFound, user.ID)
	}
	return nil
}

func (s *MongoUserStore) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: user %s", entity.ErrResourceNotFound, id)
	}
	return nil
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc userDoc
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: user", entity.ErrResourceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toEntity(), nil
}
