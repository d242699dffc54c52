package repository

import (
	"context"
	"fmt"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFlightRepository implements FlightRepository
type MongoFlightRepository struct {
	collection *mongo.Collection
	client     *mongo.Client
	logger     logger.Logger
}

// NewMongoFlightRepository creates a new flight repository
func NewMongoFlightRepository(db *mongo.Database, logger logger.Logger) repository.FlightRepository {
	collection := db.Collection("flights")

	ctx := context.Background()

	// Compound index for the per-date baseline read in display order
	dateOrderIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "date", Value: 1},
			{Key: "order", Value: 1},
		},
	}

	// Index on aircraftRegistration for fleet-scoped queries
	registrationIndex := mongo.IndexModel{
		Keys: bson.M{"aircraftRegistration": 1},
	}

	// Index on crew codes for duty-time queries
	crewIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "date", Value: 1},
			{Key: "pic", Value: 1},
		},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		dateOrderIndex,
		registrationIndex,
		crewIndex,
	})

	return &MongoFlightRepository{
		collection: collection,
		client:     db.Client(),
		logger:     logger,
	}
}

// FindByDate returns every flight scheduled on the given date
func (r *MongoFlightRepository) FindByDate(ctx context.Context, date string) ([]entity.Flight, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"date": date}, &options.FindOptions{
		Sort: bson.D{{Key: "order", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var flights []entity.Flight
	if err := cursor.All(ctx, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

// CommitScheduleSync applies the write-set inside one multi-document
// transaction, so no reader ever observes a partial result. The ids assigned
// to the creates come back in order so the caller can adopt them.
func (r *MongoFlightRepository) CommitScheduleSync(ctx context.Context, set entity.SyncSet) ([]string, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	createdIDs := make([]string, 0, len(set.Creates))
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// The transaction may be retried; start from a clean slate
		createdIDs = createdIDs[:0]
		now := time.Now()

		for _, create := range set.Creates {
			create.ID = primitive.NewObjectID().Hex()
			create.CreatedAt = now
			create.UpdatedAt = now
			if _, err := r.collection.InsertOne(sc, create); err != nil {
				return nil, fmt.Errorf("insert flight %s: %w", create.FlightNumber, err)
			}
			createdIDs = append(createdIDs, create.ID)
		}

		for _, update := range set.Updates {
			result, err := r.collection.UpdateOne(
				sc,
				bson.M{"_id": update.ID},
				bson.M{"$set": flightPatchDoc(update.Patch, now)},
			)
			if err != nil {
				return nil, fmt.Errorf("update flight %s: %w", update.ID, err)
			}
			if result.MatchedCount == 0 {
				return nil, fmt.Errorf("update flight %s: no such document", update.ID)
			}
		}

		if len(set.Deletes) > 0 {
			if _, err := r.collection.DeleteMany(sc, bson.M{"_id": bson.M{"$in": set.Deletes}}); err != nil {
				return nil, fmt.Errorf("delete flights: %w", err)
			}
		}

		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return createdIDs, nil
}

// WatchChanges opens a change stream on the flights collection and delivers a
// coalesced tick per change batch. Subscribers re-read the dates they follow.
func (r *MongoFlightRepository) WatchChanges(ctx context.Context) (<-chan struct{}, error) {
	stream, err := r.collection.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, fmt.Errorf("watch flights collection: %w", err)
	}

	ticks := make(chan struct{}, 1)
	go func() {
		defer close(ticks)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			select {
			case ticks <- struct{}{}:
			default:
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			r.logger.Error("Flight change stream ended", "error", err)
		}
	}()
	return ticks, nil
}

// flightPatchDoc builds the full-field $set document for one update. The
// order value is always written, even when nothing else changed.
func flightPatchDoc(patch entity.Flight, now time.Time) bson.M {
	doc := bson.M{
		"date":                 patch.Date,
		"flightNumber":         patch.FlightNumber,
		"route":                patch.Route,
		"aircraftRegistration": patch.AircraftRegistration,
		"aircraftType":         patch.AircraftType,
		"etd":                  patch.ETD,
		"flightTime":           patch.FlightTime,
		"commercialTime":       patch.CommercialTime,
		"pic":                  patch.PIC,
		"sic":                  patch.SIC,
		"customer":             patch.Customer,
		"customerId":           patch.CustomerID,
		"status":               patch.Status,
		"notes":                patch.Notes,
		"parentId":             patch.ParentID,
		"updatedAt":            now,
	}
	if patch.Order != nil {
		doc["order"] = *patch.Order
	}
	return doc
}
