package server

import (
	"context"

	"review360/internal/domain/scoring"
	"review360/internal/platform/jobs"
	coefficientshandler "review360/internal/transport/http/handlers/coefficients"
)

// trackedSnapshots runs manual snapshots through the job service so they are
// recorded in job_runs next to scheduled ones.
type trackedSnapshots struct {
	coefficientshandler.Service
	runs *jobs.Service
}

func (t trackedSnapshots) SnapshotPeriod(ctx context.Context, orgID, periodID string) (scoring.Coefficients, error) {
	var coeffs scoring.Coefficients
	_, err := t.runs.RunNow(ctx, jobs.JobPeriodSnapshot, orgID, func(ctx context.Context) (any, error) {
		c, err := t.Service.SnapshotPeriod(ctx, orgID, periodID)
		if err != nil {
			return map[string]string{"periodId": periodID}, err
		}
		coeffs = c
		return c, nil
	})
	return coeffs, err
}
