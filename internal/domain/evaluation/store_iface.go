package evaluation

import (
	"context"

	"review360/internal/domain/scoring"
)

type StoreAPI interface {
	scoring.CoefficientSource
	Period(ctx context.Context, orgID, periodID string) (Period, error)
	ListCompletedAssignments(ctx context.Context, periodID, targetID string) ([]scoring.Assignment, error)
	ListResponses(ctx context.Context, assignmentIDs []string) ([]scoring.Response, error)
	CategoryCatalog(ctx context.Context, orgID string) (scoring.Catalog, error)
	CategoryLabels(ctx context.Context, orgID, lang string) (map[string]string, error)
	SnapshotPeriod(ctx context.Context, orgID, periodID string, coeffs scoring.Coefficients) error
}

// Observer receives timing and volume signals from the service.
type Observer interface {
	ObserveScoring(view string, targets int, seconds float64)
	ObserveCompensation(pool string, rows int)
}
