package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"safari/pkg/auth"
	"safari/pkg/client"
	"safari/pkg/model"
)

const DefaultHealthCheckTimeout = 30 * time.Second

type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
	JWTSecret    string
}

// NewTestEnv skips the test unless TEST_SERVER_URL points at a running
// bookings service.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	serverURL := os.Getenv("TEST_SERVER_URL")
	if serverURL == "" {
		t.Skip("TEST_SERVER_URL not set, skipping integration test")
	}

	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
		ServerURL:    serverURL,
		JWTSecret:    getEnv("JWT_SECRET", "integration-secret"),
	}
}

func (e *TestEnv) Setup(t *testing.T) *MongoHelper {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanCollection(t, BookingsCollection)

	ctx, cancel := context.WithTimeout(context.Background(), DefaultHealthCheckTimeout)
	defer cancel()
	if err := client.NewHttpClient(e.ServerURL).WaitForHealthy(ctx, DefaultHealthCheckTimeout); err != nil {
		t.Fatalf("server never became healthy: %v", err)
	}

	return mongo
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanCollection(t, BookingsCollection)
		mongo.CleanCollection(t, PackagesCollection)
		mongo.Close(t)
	}
}

// ClientAs returns a bookings client authenticated as userID with role.
func (e *TestEnv) ClientAs(t *testing.T, userID string, role model.Role) *client.BookingClient {
	t.Helper()
	token, err := auth.IssueToken([]byte(e.JWTSecret), userID, role, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return client.NewBookingClient(e.ServerURL, token)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
