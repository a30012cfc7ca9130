package storage

import (
	"context"
	"fmt"

	domerrors "github.com/anurag-chatbot/au-fulfillment/internal/errors"
)

// Unavailable is the Store used when the document store could not be
// reached at startup. Every lookup fails, so handlers answer with their
// apology text while the rest of the service (knowledge search) keeps working.
type Unavailable struct {
	Cause error
}

func (u *Unavailable) err() error {
	if u.Cause == nil {
		return domerrors.ErrStoreUnavailable
	}
	return fmt.Errorf("%w: %w", domerrors.ErrStoreUnavailable, u.Cause)
}

func (u *Unavailable) GetCourseByAlias(context.Context, string) (*EngineeringCourse, error) {
	return nil, u.err()
}

func (u *Unavailable) GetHostelFees(context.Context, string) (*HostelFeeSchedule, error) {
	return nil, u.err()
}

func (u *Unavailable) FindScholarshipPolicy(context.Context, string) (*ScholarshipPolicy, error) {
	return nil, u.err()
}

func (u *Unavailable) GetPlacementByYear(context.Context, string) (*PlacementRecord, error) {
	return nil, u.err()
}

func (u *Unavailable) GetLatestPlacement(context.Context) (*PlacementRecord, error) {
	return nil, u.err()
}

func (u *Unavailable) GetPartnerList(context.Context, string) (*PartnerList, error) {
	return nil, u.err()
}

func (u *Unavailable) Ping(context.Context) error { return u.err() }

func (u *Unavailable) Close() error { return nil }
