package testutil

import (
	"context"
	"testing"
	"time"

	"safari/internal/bookings/repository"
	"safari/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "safari"
	ConnectionTimeout   = 10 * time.Second
	BookingsCollection  = repository.CollectionName
	PackagesCollection  = repository.PackagesCollectionName
)

// MongoHelper provides MongoDB test utilities
type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
}

func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
		DBName:   dbName,
	}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

func (m *MongoHelper) CleanCollection(t *testing.T, collectionName string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := m.Database.Collection(collectionName).DeleteMany(ctx, bson.M{})
	if err != nil {
		t.Fatalf("failed to clean collection %s: %v", collectionName, err)
	}
	t.Logf("Cleaned %d documents from collection: %s", result.DeletedCount, collectionName)
}

// SeedPackage inserts pkg and returns its hex id. The service never writes
// packages, so tests put them in place directly.
func (m *MongoHelper) SeedPackage(t *testing.T, pkg model.Package) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	oid := primitive.NewObjectID()
	doc := bson.M{
		"_id":        oid,
		"title":      pkg.Title,
		"category":   pkg.Category,
		"duration":   pkg.Duration,
		"location":   pkg.Location,
		"price":      pkg.Price,
		"capacity":   pkg.Capacity,
		"is_active":  pkg.IsActive,
		"rating":     pkg.Rating,
		"created_at": time.Now().UTC(),
	}
	if _, err := m.Database.Collection(PackagesCollection).InsertOne(ctx, doc); err != nil {
		t.Fatalf("failed to seed package: %v", err)
	}
	return oid.Hex()
}

// MarkPaid flips the payment flag the way a verified Stripe session would,
// for flows that cannot reach the real gateway.
func (m *MongoHelper) MarkPaid(t *testing.T, bookingID string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		t.Fatalf("invalid booking id %s: %v", bookingID, err)
	}
	_, err = m.Database.Collection(BookingsCollection).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$set": bson.M{"payment": true, "phase": model.StatusPaymentConfirmed, "status": model.StatusPaymentConfirmed},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		t.Fatalf("failed to mark booking paid: %v", err)
	}
}
