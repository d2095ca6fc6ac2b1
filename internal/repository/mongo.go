package repository

import (
	"context"
	"time"

	"advisormetric/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const feedbackCollection = "feedback_responses"

// MongoStore persists feedback as documents in a MongoDB collection.
type MongoStore struct {
	collection *mongo.Collection
	clock      Clock
}

func NewMongoStore(db *mongo.Database, clock Clock) *MongoStore {
	if clock == nil {
		clock = SystemClock
	}
	return &MongoStore{
		collection: db.Collection(feedbackCollection),
		clock:      clock,
	}
}

func (r *MongoStore) Create(ctx context.Context, in models.FeedbackInput) (*models.FeedbackResponse, error) {
	// Mongo keeps milliseconds only.
	feedback := &models.FeedbackResponse{
		ID:            newID(),
		FeedbackInput: in,
		CreatedAt:     r.clock().Truncate(time.Millisecond),
	}
	if _, err := r.collection.InsertOne(ctx, feedback); err != nil {
		return nil, unavailable("insert feedback", err)
	}
	return feedback.Clone(), nil
}

func (r *MongoStore) ListAll(ctx context.Context) ([]*models.FeedbackResponse, error) {
	return r.find(ctx, "list feedback", bson.M{})
}

func (r *MongoStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.FeedbackResponse, error) {
	if start.After(end) {
		return []*models.FeedbackResponse{}, nil
	}
	return r.find(ctx, "list feedback by date range", bson.M{
		"created_at": bson.M{"$gte": start, "$lte": end},
	})
}

func (r *MongoStore) find(ctx context.Context, op string, filter bson.M) ([]*models.FeedbackResponse, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, unavailable(op, err)
	}
	out := []*models.FeedbackResponse{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, unavailable(op, err)
	}
	for _, f := range out {
		f.CreatedAt = f.CreatedAt.UTC()
	}
	return out, nil
}

// EnsureIndexes creates the created_at index used for sorting and range scans.
func (r *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	return err
}
