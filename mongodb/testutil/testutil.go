// Package testutil provisions MongoDB databases for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const mongoImage = "mongo:7"

// MongoURI returns the URI of a reachable server, skipping the test when none
// is configured. TEST_MONGO_URI wins; TEST_MONGO_CONTAINER=1 starts a container.
func MongoURI(t *testing.T) string {
	t.Helper()

	if uri := os.Getenv("TEST_MONGO_URI"); uri != "" {
		return uri
	}
	if os.Getenv("TEST_MONGO_CONTAINER") != "1" {
		t.Skip("set TEST_MONGO_URI or TEST_MONGO_CONTAINER=1 to run MongoDB integration tests")
	}

	containerOnce.Do(func() {
		containerURI, containerErr = startContainer(context.Background())
	})
	if containerErr != nil {
		t.Fatalf("failed to start %s container: %v", mongoImage, containerErr)
	}
	return containerURI
}

var (
	containerOnce sync.Once
	containerURI  string
	containerErr  error
)

// startContainer runs one server for the whole test binary. The testcontainers
// reaper removes it when the process exits.
func startContainer(ctx context.Context) (string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        mongoImage,
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		return "", fmt.Errorf("container port: %w", err)
	}

	return fmt.Sprintf("mongodb://%s:%s", host, port.Port()), nil
}

// SetupTestMongoDB connects to a fresh, uniquely named database. The database
// is dropped and the client disconnected when the test ends.
func SetupTestMongoDB(t *testing.T, dbNamePrefix string) (*mongo.Client, string) {
	t.Helper()

	uri := MongoURI(t)
	dbName := fmt.Sprintf("%s_%d", dbNamePrefix, time.Now().UnixNano())

	clientOpts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		t.Fatalf("Failed to create MongoDB client: %v (URI: %s)", err, uri)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		t.Fatalf("Failed to connect to MongoDB (ping failed): %v (URI: %s)", err, uri)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Database(dbName).Drop(ctx); err != nil {
			t.Logf("Warning: Failed to drop database %s: %v", dbName, err)
		}
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("Warning: Failed to disconnect MongoDB client: %v", err)
		}
	})

	return client, dbName
}
