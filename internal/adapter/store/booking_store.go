package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"flightfare-core/internal/domain/entity"
)

type bookingDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FlightID    string             `bson:"flight_id"`
	Reference   string             `bson:"reference"`
	UserName    string             `bson:"user_name"`
	Email       string             `bson:"email,omitempty"`
	PhoneNumber string             `bson:"phone_number"`
	Cancelled   bool               `bson:"cancelled"`
	CreatedAt   time.Time          `bson:"created_at"`
}

type MongoBookingStore struct {
	coll *mongo.Collection
}

func NewMongoBookingStore(db *mongo.Database) *MongoBookingStore {
	return &MongoBookingStore{coll: db.Collection(BookingCollection)}
}

func (s *MongoBookingStore) Create(ctx context.Context, b *entity.Booking) error {
	res, err := s.coll.InsertOne(ctx, bookingDoc{
		FlightID:    b.FlightID,
		Reference:   b.Reference,
		UserName:    b.UserName,
		Email:       b.Email,
		PhoneNumber: b.PhoneNumber,
		Cancelled:   b.Cancelled,
		CreatedAt:   b.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		b.ID = oid.Hex()
	}
	return nil
}

// ByFlightID returns the latest booking made against a flight record.
func (s *MongoBookingStore) ByFlightID(ctx context.Context, flightID string) (*entity.Booking, error) {
	var doc bookingDoc
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	err := s.coll.FindOne(ctx, bson.M{"flight_id": flightID}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: booking for flight %s", entity.ErrResourceNotFound, flightID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &entity.Booking{
		ID:          doc.ID.Hex(),
		FlightID:    doc.FlightID,
		Reference:   doc.Reference,
		UserName:    doc.UserName,
		Email:       doc.Email,
		PhoneNumber: doc.PhoneNumber,
		Cancelled:   doc.Cancelled,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

func (s *MongoBookingStore) MarkCancelled(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid, "cancelled": false}, bson.M{"$set": bson.M{"cancelled": true}})
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrAlreadyCancelled
	}
	return nil
}
