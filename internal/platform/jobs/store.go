package jobs

import (
	"context"
	"time"

	"review360/internal/platform/querier"
)

type PGStore struct {
	DB querier.Querier
}

func NewPGStore(db querier.Querier) *PGStore {
	return &PGStore{DB: db}
}

// ListPeriodsDue returns periods whose end date has passed and that carry no
// snapshot marker yet.
func (s *PGStore) ListPeriodsDue(ctx context.Context, now time.Time) ([]PeriodRef, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT p.organization_id::text, p.id::text
    FROM evaluation_periods p
    LEFT JOIN period_snapshots ps ON ps.period_id = p.id
    WHERE p.end_date < $1 AND ps.period_id IS NULL
    ORDER BY p.end_date ASC
  `, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PeriodRef
	for rows.Next() {
		var ref PeriodRef
		if err := rows.Scan(&ref.OrganizationID, &ref.PeriodID); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

func (s *PGStore) StartRun(ctx context.Context, orgID, jobType string) (string, error) {
	var runID string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (organization_id, job_type, status)
    VALUES ($1,$2,$3)
    RETURNING id::text
  `, orgID, jobType, statusRunning).Scan(&runID)
	return runID, err
}

func (s *PGStore) FinishRun(ctx context.Context, runID, status string, details []byte) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, details, runID)
	return err
}
