package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
)

// MongoStore implements the Store interface using MongoDB
type MongoStore struct {
	client             *mongo.Client
	database           *mongo.Database
	reminderCollection *mongo.Collection
}

// NewMongoStore creates a new MongoDB store instance
func NewMongoStore(connectionString, databaseName string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Test the connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(databaseName)

	ms := &MongoStore{
		client:             client,
		database:           database,
		reminderCollection: database.Collection("daily_reminders"),
	}

	if err := ms.ensureIndexes(); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	return ms, nil
}

// Close closes the MongoDB connection
func (ms *MongoStore) Close(ctx context.Context) error {
	return ms.client.Disconnect(ctx)
}

// Database exposes the underlying database handle so read-only collaborators
// (user directory, note catalog) can share the connection.
func (ms *MongoStore) Database() *mongo.Database {
	return ms.database
}

// ensureIndexes creates the indexes the store relies on: the unique
// (user_id, date) index is what enforces one reminder per user per day, and
// the date index keeps the warm-up scan from collection-scanning.
func (ms *MongoStore) ensureIndexes() error {
	ctx := context.Background()

	_, err := ms.reminderCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "date", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create reminder indexes: %w", err)
	}
	return nil
}

func (ms *MongoStore) Get(userID, date string) (*reminder.Record, error) {
	ctx := context.Background()

	filter := bson.M{"user_id": userID, "date": date}

	var r reminder.Record
	err := ms.reminderCollection.FindOne(ctx, filter).Decode(&r)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}

	return &r, nil
}

func (ms *MongoStore) Save(r *reminder.Record) error {
	ctx := context.Background()

	filter := bson.M{"user_id": r.UserID, "date": r.Date}
	opts := options.Replace().SetUpsert(true)

	_, err := ms.reminderCollection.ReplaceOne(ctx, filter, r, opts)
	if err != nil {
		return fmt.Errorf("failed to save reminder: %w", err)
	}

	return nil
}

func (ms *MongoStore) Delete(userID, date string) error {
	ctx := context.Background()

	filter := bson.M{"user_id": userID, "date": date}

	_, err := ms.reminderCollection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	return nil
}

func (ms *MongoStore) ForEachByDate(date string, fn func(*reminder.Record) error) error {
	ctx := context.Background()

	cursor, err := ms.reminderCollection.Find(ctx, bson.M{"date": date})
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var r reminder.Record
		if err := cursor.Decode(&r); err != nil {
			return fmt.Errorf("failed to decode reminder: %w", err)
		}
		if err := fn(&r); err != nil {
			return err
		}
	}

	if err := cursor.Err(); err != nil {
		return fmt.Errorf("cursor error: %w", err)
	}

	return nil
}
