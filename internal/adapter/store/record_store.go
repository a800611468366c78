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

type flightRecordDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         primitive.ObjectID `bson:"user_id"`
	Origin         string             `bson:"origin"`
	Destination    string             `bson:"destination"`
	DepartureTime  time.Time          `bson:"departure_time"`
	ArrivalTime    time.Time          `bson:"arrival_time"`
	Airline        string             `bson:"airline"`
	TransitCount   int                `bson:"transit_count"`
	PredictedPrice float64            `bson:"predicted_price"`
	Booked         bool               `bson:"booked"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func (d flightRecordDoc) toEntity() entity.FlightRecord {
	return entity.FlightRecord{
		ID:             d.ID.Hex(),
		UserID:         d.UserID.Hex(),
		Origin:         d.Origin,
		Destination:    d.Destination,
		DepartureTime:  d.DepartureTime,
		ArrivalTime:    d.ArrivalTime,
		Airline:        d.Airline,
		TransitCount:   d.TransitCount,
		PredictedPrice: d.PredictedPrice,
		Booked:         d.Booked,
		CreatedAt:      d.CreatedAt,
	}
}

type MongoFlightRecordStore struct {
	coll *mongo.Collection
}

func NewMongoFlightRecordStore(db *mongo.Database) *MongoFlightRecordStore {
	return &MongoFlightRecordStore{coll: db.Collection(FlightRecordCollection)}
}

func (s *MongoFlightRecordStore) Create(ctx context.Context, r *entity.FlightRecord) error {
	uid, err := parseObjectID(r.UserID)
	if err != nil {
		return err
	}
	res, err := s.coll.InsertOne(ctx, flightRecordDoc{
		UserID:         uid,
		Origin:         r.Origin,
		Destination:    r.Destination,
		DepartureTime:  r.DepartureTime,
		ArrivalTime:    r.ArrivalTime,
		Airline:        r.Airline,
		TransitCount:   r.TransitCount,
		PredictedPrice: r.PredictedPrice,
		Booked:         r.Booked,
		CreatedAt:      r.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert flight record: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		r.ID = oid.Hex()
	}
	return nil
}

func (s *MongoFlightRecordStore) FindForUser(ctx context.Context, userID, id string) (*entity.FlightRecord, error) {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return nil, err
	}
	var doc flightRecordDoc
	err = s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: no flight info found", entity.ErrResourceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find flight record: %w", err)
	}
	rec := doc.toEntity()
	return &rec, nil
}

func (s *MongoFlightRecordStore) ListForUser(ctx context.Context, userID string, bookedOnly bool) ([]entity.FlightRecord, error) {
	uid, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"user_id": uid}
	if bookedOnly {
		filter["booked"] = true
	}
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list flight records: %w", err)
	}
	var docs []flightRecordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode flight records: %w", err)
	}
	out := make([]entity.FlightRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}

// MarkBooked flips the flag only if it is still unset, so two concurrent
// bookings of one record cannot both succeed.
func (s *MongoFlightRecordStore) MarkBooked(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid, "booked": false}, bson.M{"$set": bson.M{"booked": true}})
	if err != nil {
		return fmt.Errorf("failed to mark flight record booked: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrAlreadyBooked
	}
	return nil
}

// UnmarkBooked releases a claim whose booking could not be written.
func (s *MongoFlightRecordStore) UnmarkBooked(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"booked": false}})
	if err != nil {
		return fmt.Errorf("failed to release flight record: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: no flight info found", entity.ErrResourceNotFound)
	}
	return nil
}

func (s *MongoFlightRecordStore) Delete(ctx context.Context, userID, id string) error {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete flight record: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: no record found", entity.ErrResourceNotFound)
	}
	return nil
}

func ownedFilter(userID, id string) (bson.M, error) {
	uid, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "user_id": uid}, nil
}
