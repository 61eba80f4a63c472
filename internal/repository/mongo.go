package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	interviewCollection = "interviews"
	contactCollection   = "contacts"

	interviewTextIndex  = "interview_text"
	defaultMongoTimeout = 5 * time.Second
)

// NewMongoRepository wires both collections of db and makes sure their
// indexes exist. Close disconnects client.
func NewMongoRepository(ctx context.Context, client *mongo.Client, database string, timeout time.Duration) (*Repository, error) {
	if client == nil {
		return nil, errors.New("mongo client is required")
	}
	if database == "" {
		return nil, errors.New("database name is required")
	}
	if timeout <= 0 {
		timeout = defaultMongoTimeout
	}
	db := client.Database(database)

	interviews := &mongoInterviewRepo{coll: db.Collection(interviewCollection), timeout: timeout}
	contacts := &mongoContactRepo{coll: db.Collection(contactCollection), timeout: timeout}

	ictx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := ensureMongoIndexes(ictx, db); err != nil {
		return nil, err
	}

	return &Repository{
		Interview: interviews,
		Contact:   contacts,
		name:      "mongo",
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	}, nil
}

func ensureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(interviewCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "company", Value: "text"},
				{Key: "role", Value: "text"},
				{Key: "detailedWriteup.preparation", Value: "text"},
				{Key: "detailedWriteup.reflections", Value: "text"},
				{Key: "tags", Value: "text"},
			},
			Options: options.Index().SetName(interviewTextIndex).SetWeights(bson.D{
				{Key: "company", Value: 10},
				{Key: "role", Value: 5},
				{Key: "tags", Value: 3},
				{Key: "detailedWriteup.preparation", Value: 1},
				{Key: "detailedWriteup.reflections", Value: 1},
			}),
		},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "featured", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "company", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create interview indexes: %w", err)
	}

	_, err = db.Collection(contactCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "read", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create contact indexes: %w", err)
	}
	return nil
}

// parseObjectID maps an unparsable id to ErrNotFound.
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// mongoNow is truncated to the millisecond precision Mongo stores.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
