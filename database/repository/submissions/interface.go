package submissionsRepo

import (
	"context"

	"ordesk/database"
	"ordesk/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type SubmissionRepository interface {
	Insert(ctx context.Context, record models.SubmissionRecord) error
	GetByOrderID(ctx context.Context, orderID int64) (*models.SubmissionRecord, error)
	Recent(ctx context.Context, limit int64) ([]models.SubmissionRecord, error)
}

type mongoSubmissionRepo struct {
	coll *mongo.Collection
}

// NewMongoSubmissionRepo returns a new SubmissionRepository instance using MongoDB.
func NewMongoSubmissionRepo() SubmissionRepository {
	db := database.MongoClient.Database("ordesk")
	return &mongoSubmissionRepo{
		coll: db.Collection("submissions"),
	}
}
