package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"docportal/pkg/config"
	"docportal/pkg/model"
)

const (
	CollectionName = "Treatments"
)

var ErrNotFound = errors.New("treatment not found")

type mongoTreatmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type TreatmentRepository interface {
	FindAll(ctx context.Context) ([]*model.Treatment, error)
	FindNames(ctx context.Context) ([]*model.Treatment, error)
	FindByName(ctx context.Context, name string) (*model.Treatment, error)
}

func NewMongoTreatmentRepository(cfg *config.Config) TreatmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTreatmentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoTreatmentRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoTreatmentRepository) FindAll(ctx context.Context) ([]*model.Treatment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find treatments: %w", err)
	}
	defer cursor.Close(ctx)

	var treatments []*model.Treatment
	if err = cursor.All(ctx, &treatments); err != nil {
		return nil, fmt.Errorf("failed to decode treatments: %w", err)
	}

	return treatments, nil
}

// FindNames projects the catalog down to names only, the shape the
// appointment page needs.
func (r *mongoTreatmentRepository) FindNames(ctx context.Context) ([]*model.Treatment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"name": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find treatment names: %w", err)
	}
	defer cursor.Close(ctx)

	var treatments []*model.Treatment
	if err = cursor.All(ctx, &treatments); err != nil {
		return nil, fmt.Errorf("failed to decode treatment names: %w", err)
	}

	return treatments, nil
}

func (r *mongoTreatmentRepository) FindByName(ctx context.Context, name string) (*model.Treatment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var treatment model.Treatment
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&treatment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find treatment: %w", err)
	}

	return &treatment, nil
}
