package repository

import (
	"context"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoComplianceRepository implements ComplianceRepository
type MongoComplianceRepository struct {
	collection *mongo.Collection
}

// NewMongoComplianceRepository creates a new crew document repository
func NewMongoComplianceRepository(db *mongo.Database) repository.ComplianceRepository {
	collection := db.Collection("crewDocuments")

	ctx := context.Background()
	crewCodeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "crewCode", Value: 1},
			{Key: "type", Value: 1},
		},
	}
	collection.Indexes().CreateOne(ctx, crewCodeIndex)

	return &MongoComplianceRepository{
		collection: collection,
	}
}

// FindByCrewCode returns every training and qualification record held by the
// crew member
func (r *MongoComplianceRepository) FindByCrewCode(ctx context.Context, crewCode string) ([]entity.ComplianceRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"crewCode": crewCode}, &options.FindOptions{
		Sort: bson.D{{Key: "expiryDate", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []entity.ComplianceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
