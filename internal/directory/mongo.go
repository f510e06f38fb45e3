package directory

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
)

// MongoDirectory reads the collaborator collections (users, bookmarks,
// answers, notes) owned by other subsystems. Read-only: this package never
// writes to them.
type MongoDirectory struct {
	users     *mongo.Collection
	bookmarks *mongo.Collection
	answers   *mongo.Collection
	notes     *mongo.Collection
}

func NewMongoDirectory(database *mongo.Database) *MongoDirectory {
	return &MongoDirectory{
		users:     database.Collection("users"),
		bookmarks: database.Collection("bookmarks"),
		answers:   database.Collection("answers"),
		notes:     database.Collection("notes"),
	}
}

func (d *MongoDirectory) ListIDs(offset, limit int) ([]string, error) {
	ctx := context.Background()

	opts := options.Find().
		SetSort(bson.D{{Key: "user_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"user_id": 1})

	cursor, err := d.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			UserID string `bson:"user_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		ids = append(ids, doc.UserID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return ids, nil
}

func (d *MongoDirectory) BookmarkedNoteIDs(userID string) ([]string, error) {
	return noteIDsFor(d.bookmarks, userID)
}

func (d *MongoDirectory) AnsweredNoteIDs(userID string) ([]string, error) {
	return noteIDsFor(d.answers, userID)
}

func noteIDsFor(collection *mongo.Collection, userID string) ([]string, error) {
	ctx := context.Background()

	cursor, err := collection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetProjection(bson.M{"note_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list note ids: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			NoteID string `bson:"note_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode note id: %w", err)
		}
		ids = append(ids, doc.NoteID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return ids, nil
}

func (d *MongoDirectory) Snapshot(noteID string) (*reminder.NotePayload, error) {
	ctx := context.Background()

	var doc struct {
		NoteID   string `bson:"note_id"`
		Title    string `bson:"title"`
		ImageURL string `bson:"image_url"`
	}
	err := d.notes.FindOne(ctx, bson.M{"note_id": noteID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return &reminder.NotePayload{NoteID: doc.NoteID, Title: doc.Title, ImageURL: doc.ImageURL}, nil
}
