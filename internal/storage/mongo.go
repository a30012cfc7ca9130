package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoStore reads the university collections from MongoDB.
type MongoStore struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// MongoOptions configures NewMongoStore.
type MongoOptions struct {
	URI      string
	Database string
	// Timeout bounds each query. Zero means no extra bound beyond the caller's context.
	Timeout time.Duration
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetAppName("au-fulfillment")
	if opts.Timeout > 0 {
		clientOpts.SetServerSelectionTimeout(opts.Timeout)
	}

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	s := &MongoStore{
		client:  client,
		db:      client.Database(opts.Database),
		timeout: opts.Timeout,
	}
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return s, nil
}

func (s *MongoStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// findOne decodes the first document matching filter into out. It reports
// false with a nil error when nothing matches.
func (s *MongoStore) findOne(ctx context.Context, collection string, filter any, out any, opts ...options.Lister[options.FindOneOptions]) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	err := s.db.Collection(collection).FindOne(ctx, filter, opts...).Decode(out)
	warnSlow(ctx, "mongo.FindOne", start, "collection", collection)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "mongo query failed", "collection", collection, "error", err)
		return false, fmt.Errorf("find in %s: %w", collection, err)
	}
	return true, nil
}

// GetCourseByAlias returns the course with the exact alias, or nil.
func (s *MongoStore) GetCourseByAlias(ctx context.Context, alias string) (*EngineeringCourse, error) {
	var c EngineeringCourse
	found, err := s.findOne(ctx, CollectionCourses, bson.D{{Key: "alias", Value: alias}}, &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

// GetHostelFees returns the schedule for gender, or nil.
func (s *MongoStore) GetHostelFees(ctx context.Context, gender string) (*HostelFeeSchedule, error) {
	var h HostelFeeSchedule
	found, err := s.findOne(ctx, CollectionHostelFees, bson.D{{Key: "gender", Value: gender}}, &h)
	if err != nil || !found {
		return nil, err
	}
	return &h, nil
}

// FindScholarshipPolicy returns the first policy whose exam contains exam,
// ignoring case. exam is matched literally.
func (s *MongoStore) FindScholarshipPolicy(ctx context.Context, exam string) (*ScholarshipPolicy, error) {
	filter := bson.D{{Key: "exam", Value: bson.Regex{Pattern: regexp.QuoteMeta(exam), Options: "i"}}}
	var p ScholarshipPolicy
	found, err := s.findOne(ctx, CollectionScholarships, filter, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// GetPlacementByYear returns the record for year, or nil.
func (s *MongoStore) GetPlacementByYear(ctx context.Context, year string) (*PlacementRecord, error) {
	var r PlacementRecord
	found, err := s.findOne(ctx, CollectionPlacements, bson.D{{Key: "year", Value: year}}, &r)
	if err != nil || !found {
		return nil, err
	}
	return &r, nil
}

// GetLatestPlacement returns the record with the lowest sort_order, or nil.
func (s *MongoStore) GetLatestPlacement(ctx context.Context) (*PlacementRecord, error) {
	var r PlacementRecord
	opts := options.FindOne().SetSort(bson.D{{Key: "sort_order", Value: 1}})
	found, err := s.findOne(ctx, CollectionPlacements, bson.D{}, &r, opts)
	if err != nil || !found {
		return nil, err
	}
	return &r, nil
}

// GetPartnerList returns the named partner list, or nil.
func (s *MongoStore) GetPartnerList(ctx context.Context, listName string) (*PartnerList, error) {
	var l PartnerList
	found, err := s.findOne(ctx, CollectionPartners, bson.D{{Key: "list_name", Value: listName}}, &l)
	if err != nil || !found {
		return nil, err
	}
	return &l, nil
}

// Ping checks the primary is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
