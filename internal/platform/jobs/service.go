package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

const (
	JobPeriodSnapshot = "period_snapshot"

	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"

	queueSize = 128
)

// PeriodRef names one period that is due for a snapshot.
type PeriodRef struct {
	OrganizationID string
	PeriodID       string
}

// Store finds due periods and keeps the job_runs history.
type Store interface {
	ListPeriodsDue(ctx context.Context, now time.Time) ([]PeriodRef, error)
	StartRun(ctx context.Context, orgID, jobType string) (string, error)
	FinishRun(ctx context.Context, runID, status string, details []byte) error
}

// Snapshotter freezes a period's coefficients and returns what was frozen.
type Snapshotter interface {
	SnapshotPeriod(ctx context.Context, orgID, periodID string) (any, error)
}

// SnapshotFunc adapts a plain function to Snapshotter.
type SnapshotFunc func(ctx context.Context, orgID, periodID string) (any, error)

func (f SnapshotFunc) SnapshotPeriod(ctx context.Context, orgID, periodID string) (any, error) {
	return f(ctx, orgID, periodID)
}

type Service struct {
	Store    Store
	Snapshot Snapshotter
	Interval time.Duration
	now      func() time.Time
	queue    chan job
}

type job struct {
	Type  string
	OrgID string
	Run   func(context.Context) (any, error)
}

func New(store Store, snapshot Snapshotter, interval time.Duration) *Service {
	return &Service{
		Store:    store,
		Snapshot: snapshot,
		Interval: interval,
		now:      time.Now,
		queue:    make(chan job, queueSize),
	}
}

// Start runs the worker and, when Interval is positive, the snapshot schedule.
func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Interval > 0 {
		go s.scheduleSnapshots(ctx, s.Interval)
	}
}

func (s *Service) Enqueue(jobType, orgID string, run func(context.Context) (any, error)) bool {
	select {
	case s.queue <- job{Type: jobType, OrgID: orgID, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType, "orgId", orgID)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType, orgID string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, OrgID: orgID, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "orgId", j.OrgID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID, err := s.Store.StartRun(ctx, j.OrgID, j.Type)
	if err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := statusCompleted
	if err != nil {
		status = statusFailed
		details = map[string]any{"error": err.Error(), "details": details}
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if updErr := s.Store.FinishRun(ctx, runID, status, detailsJSON); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

// EnqueueDue queues one snapshot job per period that has ended without a
// snapshot. It returns how many were queued.
func (s *Service) EnqueueDue(ctx context.Context) (int, error) {
	due, err := s.Store.ListPeriodsDue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	queued := 0
	for _, ref := range due {
		ref := ref
		if s.Enqueue(JobPeriodSnapshot, ref.OrganizationID, func(ctx context.Context) (any, error) {
			return s.Snapshot.SnapshotPeriod(ctx, ref.OrganizationID, ref.PeriodID)
		}) {
			queued++
		}
	}
	return queued, nil
}

func (s *Service) scheduleSnapshots(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.EnqueueDue(ctx); err != nil {
				slog.Warn("snapshot scheduler period lookup failed", "err", err)
			}
		}
	}
}
