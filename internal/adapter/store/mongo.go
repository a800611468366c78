package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"flightfare-core/internal/domain/entity"
)

// Collection names in the flight_price_predictor database.
const (
	SourceCollection       = "Source"
	DestinationCollection  = "Destination"
	AirlineCollection      = "Airline"
	UserCollection         = "User"
	FlightRecordCollection = "flight_records"
	BookingCollection      = "FlightBooking"
)

func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the lookup indexes the stores rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		SourceCollection:      {{Keys: bson.D{{Key: "source", Value: 1}}, Options: unique}},
		DestinationCollection: {{Keys: bson.D{{Key: "destination", Value: 1}}, Options: unique}},
		AirlineCollection:     {{Keys: bson.D{{Key: "airline", Value: 1}}, Options: unique}},
		UserCollection:        {{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		FlightRecordCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "booked", Value: 1}}},
		},
		BookingCollection: {{Keys: bson.D{{Key: "flight_id", Value: 1}}}},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: malformed id %q", entity.ErrResourceNotFound, id)
	}
	return oid, nil
}
