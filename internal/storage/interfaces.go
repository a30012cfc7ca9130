// Package storage provides read access to the university fact collections.
// Two implementations share one contract: MongoStore for the production
// document store and DB, a SQLite mirror used for local runs and tests.
//
// Lookups follow a two-case result: a record, or (nil, nil) when nothing
// matches. A non-nil error always means the store itself failed.
package storage

import "context"

// CourseRepository reads engineering course descriptions.
type CourseRepository interface {
	GetCourseByAlias(ctx context.Context, alias string) (*EngineeringCourse, error)
}

// HostelRepository reads hostel fee schedules.
type HostelRepository interface {
	// GetHostelFees returns the schedule for an upper-case gender key.
	GetHostelFees(ctx context.Context, gender string) (*HostelFeeSchedule, error)
}

// ScholarshipRepository reads merit scholarship policies.
type ScholarshipRepository interface {
	// FindScholarshipPolicy returns the first policy whose exam contains
	// exam, compared case-insensitively.
	FindScholarshipPolicy(ctx context.Context, exam string) (*ScholarshipPolicy, error)
}

// PlacementRepository reads placement statistics.
type PlacementRepository interface {
	GetPlacementByYear(ctx context.Context, year string) (*PlacementRecord, error)
	// GetLatestPlacement returns the record with the lowest sort order.
	GetLatestPlacement(ctx context.Context) (*PlacementRecord, error)
}

// PartnerRepository reads industry partner lists.
type PartnerRepository interface {
	GetPartnerList(ctx context.Context, listName string) (*PartnerList, error)
}

// Store is the full read contract used by the fulfillment handlers.
type Store interface {
	CourseRepository
	HostelRepository
	ScholarshipRepository
	PlacementRepository
	PartnerRepository

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
	// Close releases connections.
	Close() error
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*MongoStore)(nil)
	_ Store = (*Unavailable)(nil)
)
