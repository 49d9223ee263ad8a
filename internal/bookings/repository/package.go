package repository

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "safari/internal/bookings/errors"
	"safari/pkg/config"
	mongoutil "safari/pkg/db/mongo"
	"safari/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const PackagesCollectionName = "Packages"

// PackageRepository is read-only: packages are managed by the catalogue
// service.
type PackageRepository interface {
	FindByID(ctx context.Context, id string) (*model.Package, error)
	FindActive(ctx context.Context, limit int, offset int64) ([]*model.Package, error)
	CountActive(ctx context.Context) (int64, error)
}

type mongoPackageRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPackageRepository(cfg *config.Config) PackageRepository {
	return &mongoPackageRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(PackagesCollectionName),
	}
}

func (r *mongoPackageRepository) FindByID(ctx context.Context, id string) (*model.Package, error) {
	ctx, cancel := mongoutil.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, bookingserrors.ErrPackageNotFound
	}

	var pkg model.Package
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&pkg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to find package: %w", err)
	}
	return &pkg, nil
}

func (r *mongoPackageRepository) FindActive(ctx context.Context, limit int, offset int64) ([]*model.Package, error) {
	ctx, cancel := mongoutil.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "title", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find packages: %w", err)
	}
	defer cursor.Close(ctx)

	packages := []*model.Package{}
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, fmt.Errorf("failed to decode packages: %w", err)
	}
	return packages, nil
}

func (r *mongoPackageRepository) CountActive(ctx context.Context) (int64, error) {
	ctx, cancel := mongoutil.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count packages: %w", err)
	}
	return count, nil
}
