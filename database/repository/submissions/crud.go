package submissionsRepo

import (
	"context"
	"time"

	"ordesk/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Insert stores a submission record.
func (r *mongoSubmissionRepo) Insert(ctx context.Context, record models.SubmissionRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, record)
	return err
}

// GetByOrderID returns the submission record for a given order.
func (r *mongoSubmissionRepo) GetByOrderID(ctx context.Context, orderID int64) (*models.SubmissionRecord, error) {
	var record models.SubmissionRecord
	err := r.coll.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Recent returns the most recent submissions, newest first.
func (r *mongoSubmissionRepo) Recent(ctx context.Context, limit int64) ([]models.SubmissionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.SubmissionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
