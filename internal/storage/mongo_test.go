package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
)

// skipIfNoDocker skips the test if Docker is not available
func skipIfNoDocker(t *testing.T) {
	if os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true" {
		t.Skip("Skipping Docker-based tests in CI environment")
	}
}

// setupMongoTestContainer sets up a MongoDB test container and returns the store and cleanup function
func setupMongoTestContainer(t *testing.T) (*MongoStore, func()) {
	skipIfNoDocker(t)

	ctx := context.Background()

	mongoContainer, err := mongodb.RunContainer(ctx)
	if err != nil {
		t.Skipf("Failed to start MongoDB container (Docker may not be available): %v", err)
	}

	connectionString, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		mongoContainer.Terminate(ctx)
		t.Skipf("Failed to get MongoDB connection string: %v", err)
	}

	mongoStore, err := NewMongoStore(connectionString, "test_daily_reminders")
	if err != nil {
		mongoContainer.Terminate(ctx)
		t.Skipf("Failed to create MongoDB store: %v", err)
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		mongoStore.Close(ctx)
		mongoContainer.Terminate(ctx)
	}

	return mongoStore, cleanup
}

func TestMongoStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping MongoDB integration test in short mode")
	}

	mongoStore, cleanup := setupMongoTestContainer(t)
	defer cleanup()

	runStoreTests(t, mongoStore)
}

func TestMongoStoreUniquePerUserDay(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping MongoDB integration test in short mode")
	}

	mongoStore, cleanup := setupMongoTestContainer(t)
	defer cleanup()

	// Saving the same (user, date) twice must end with exactly one document.
	if err := mongoStore.Save(testRecord("usr1", "2025-03-01")); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := mongoStore.Save(testRecord("usr1", "2025-03-01")); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	count := 0
	if err := mongoStore.ForEachByDate("2025-03-01", func(*reminder.Record) error {
		count++
		return nil
	}); err != nil {
		t.Fatalf("ForEachByDate failed: %v", err)
	}
	if count != 1 {
		t.Errorf("documents for (usr1, 2025-03-01): got %d, want 1", count)
	}
}
