package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default MongoDB settings.
const (
	DefaultDatabase   = "sketchmesh"
	DefaultCollection = "jobs"

	mongoConnectTimeout = 10 * time.Second
)

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string // e.g. "mongodb://localhost:27017"
	Database   string // defaults to DefaultDatabase
	Collection string // defaults to DefaultCollection
}

// MongoStore persists jobs in MongoDB for multi-instance deployments.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)

	// Index for List; _id is already indexed for Get.
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create job index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// Create persists a new job.
func (s *MongoStore) Create(ctx context.Context, job *Job) error {
	if _, err := s.coll.InsertOne(ctx, job); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("job %s already exists", job.ID)
		}
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// Get retrieves a job by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Job, error) {
	var job Job
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	return &job, nil
}

// Update replaces a job's stored state.
func (s *MongoStore) Update(ctx context.Context, job *Job) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": job.ID}, job)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the most recently created jobs, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]*Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer cur.Close(ctx)

	var out []*Job
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
