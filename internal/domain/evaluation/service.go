package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"review360/internal/domain/scoring"
)

const (
	ViewAdminResults = "admin_results"
	ViewSelfResults  = "self_results"
	ViewDevelopment  = "development"
	ViewCompensation = "compensation"
)

type Options struct {
	Defaults      scoring.Defaults
	DefaultMinPct float64
	DefaultMaxPct float64
	Observer      Observer
}

type Service struct {
	store    StoreAPI
	resolver *scoring.Resolver
	opts     Options
}

func NewService(store StoreAPI, opts Options) *Service {
	return &Service{
		store:    store,
		resolver: scoring.NewResolver(store, opts.Defaults),
		opts:     opts,
	}
}

func requireScope(orgID, periodID string) error {
	if strings.TrimSpace(orgID) == "" {
		return scoring.Validation("organization id is required", "sign in with an organization-scoped account")
	}
	if strings.TrimSpace(periodID) == "" {
		return scoring.Validation("periodId is required", "pass periodId as a query parameter")
	}
	return nil
}

// batch is one period's raw inputs fetched from the store.
type batch struct {
	period      Period
	coeffs      scoring.Coefficients
	assignments []scoring.Assignment
	evals       []scoring.PerEvaluation
}

func (s *Service) load(ctx context.Context, orgID, periodID, targetID string) (batch, error) {
	if err := requireScope(orgID, periodID); err != nil {
		return batch{}, err
	}
	period, err := s.store.Period(ctx, orgID, periodID)
	if err != nil {
		return batch{}, err
	}
	coeffs, err := s.resolver.Resolve(ctx, orgID, periodID)
	if err != nil {
		return batch{}, err
	}

	assignments, err := s.store.ListCompletedAssignments(ctx, periodID, targetID)
	if err != nil {
		return batch{}, err
	}
	valid := assignments[:0]
	for _, a := range assignments {
		if err := a.Validate(); err != nil {
			slog.Warn("skipping invalid assignment", "periodId", periodID, "err", err)
			continue
		}
		valid = append(valid, a)
	}
	if len(valid) == 0 {
		if targetID != "" {
			return batch{}, scoring.NotFound("no completed evaluations for this person in the period", "check that evaluations assigned to you are submitted")
		}
		return batch{}, scoring.NotFound("no completed evaluations in the period", "complete at least one assignment before viewing results")
	}

	ids := make([]string, 0, len(valid))
	for _, a := range valid {
		ids = append(ids, a.ID)
	}
	responses, err := s.store.ListResponses(ctx, ids)
	if err != nil {
		return batch{}, err
	}
	clean := responses[:0]
	for _, r := range responses {
		if err := r.Validate(); err != nil {
			slog.Warn("skipping invalid response", "periodId", periodID, "err", err)
			continue
		}
		clean = append(clean, r)
	}

	catalog, err := s.store.CategoryCatalog(ctx, orgID)
	if err != nil {
		// Raw stored category names are the fallback key, so scoring can proceed.
		slog.Warn("category catalog lookup failed", "orgId", orgID, "err", err)
		catalog = scoring.Catalog{}
	}

	return batch{
		period:      period,
		coeffs:      coeffs,
		assignments: valid,
		evals:       scoring.Aggregate(valid, clean, catalog),
	}, nil
}

func (b batch) targets() map[string]scoring.Target {
	out := map[string]scoring.Target{}
	for _, a := range b.assignments {
		if _, ok := out[a.TargetID]; ok {
			continue
		}
		out[a.TargetID] = scoring.Target{ID: a.TargetID, Name: a.TargetName, Department: a.Department, ManagerID: a.ManagerID}
	}
	return out
}

func (b batch) score() []scoring.TargetScore {
	targets := b.targets()
	order, groups := scoring.GroupByTarget(b.evals)
	out := make([]scoring.TargetScore, 0, len(order))
	for _, id := range order {
		out = append(out, scoring.Score(targets[id], groups[id], b.coeffs))
	}
	return out
}

func (s *Service) observe(view string, targets int, started time.Time) {
	if s.opts.Observer != nil {
		s.opts.Observer.ObserveScoring(view, targets, time.Since(started).Seconds())
	}
}

// Results scores every target in the period, best overall score first.
func (s *Service) Results(ctx context.Context, orgID, periodID string) (PeriodResults, error) {
	started := time.Now()
	b, err := s.load(ctx, orgID, periodID, "")
	if err != nil {
		return PeriodResults{}, err
	}
	scores := b.score()
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].OverallAvg == scores[j].OverallAvg {
			return scores[i].Name < scores[j].Name
		}
		return scores[i].OverallAvg > scores[j].OverallAvg
	})
	s.observe(ViewAdminResults, len(scores), started)
	return PeriodResults{Period: b.period, Targets: scores}, nil
}

func (s *Service) TargetResult(ctx context.Context, orgID, periodID, targetID string) (Period, scoring.TargetScore, error) {
	started := time.Now()
	if strings.TrimSpace(targetID) == "" {
		return Period{}, scoring.TargetScore{}, scoring.Validation("target id is required", "pick the person whose results to view")
	}
	b, err := s.load(ctx, orgID, periodID, targetID)
	if err != nil {
		return Period{}, scoring.TargetScore{}, err
	}
	for _, score := range b.score() {
		if score.ID == targetID {
			s.observe(ViewSelfResults, 1, started)
			return b.period, score, nil
		}
	}
	return Period{}, scoring.TargetScore{}, scoring.NotFound("no results for this person in the period", "check the period and person")
}

func (s *Service) Development(ctx context.Context, orgID, periodID, targetID string) (DevelopmentPlan, error) {
	started := time.Now()
	period, score, err := s.TargetResult(ctx, orgID, periodID, targetID)
	if err != nil {
		return DevelopmentPlan{}, err
	}
	gaps := make([]scoring.CategoryCompare, 0, len(score.CategoryCompare))
	for _, c := range score.CategoryCompare {
		if c.HasSelf && c.HasPeer {
			gaps = append(gaps, c)
		}
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		di, dj := math.Abs(gaps[i].Diff), math.Abs(gaps[j].Diff)
		if di == dj {
			return gaps[i].Name < gaps[j].Name
		}
		return di > dj
	})
	s.observe(ViewDevelopment, 1, started)
	return DevelopmentPlan{
		Period:     period,
		Score:      score,
		Gaps:       gaps,
		ActionPlan: scoring.ActionPlan(score.CategoryCompare),
	}, nil
}

// Compensation recommends raises for every scored target in the period.
func (s *Service) Compensation(ctx context.Context, req CompensationRequest) (CompensationResult, error) {
	started := time.Now()
	if err := requireScope(req.OrganizationID, req.PeriodID); err != nil {
		return CompensationResult{}, err
	}
	pool, err := scoring.ParsePool(req.Pool)
	if err != nil {
		return CompensationResult{}, err
	}
	minPct, maxPct := s.opts.DefaultMinPct, s.opts.DefaultMaxPct
	if req.MinPct != nil {
		minPct = *req.MinPct
	}
	if req.MaxPct != nil {
		maxPct = *req.MaxPct
	}
	if maxPct < minPct {
		return CompensationResult{}, &scoring.Error{
			Kind:    scoring.KindValidation,
			Message: fmt.Sprintf("maxPct %.1f is below minPct %.1f", maxPct, minPct),
			Hint:    "swap the bounds or raise maxPct",
			Err:     scoring.ErrInvalidPctRange,
		}
	}

	b, err := s.load(ctx, req.OrganizationID, req.PeriodID, "")
	if err != nil {
		return CompensationResult{}, err
	}
	params := scoring.CompensationParams{
		Pool:              pool,
		MinPct:            minPct,
		MaxPct:            maxPct,
		MinHighConfidence: b.coeffs.Confidence.MinHighConfidenceEvaluatorCount,
	}
	rows, err := scoring.Recommend(b.score(), params)
	if err != nil {
		return CompensationResult{}, err
	}

	s.observe(ViewCompensation, len(rows), started)
	if s.opts.Observer != nil {
		s.opts.Observer.ObserveCompensation(string(pool), len(rows))
	}
	return CompensationResult{
		Period:            b.period,
		Pool:              pool,
		MinPct:            minPct,
		MaxPct:            maxPct,
		MinHighConfidence: params.MinHighConfidence,
		Rows:              rows,
	}, nil
}

func (s *Service) Coefficients(ctx context.Context, orgID, periodID string) (scoring.Coefficients, error) {
	if err := requireScope(orgID, periodID); err != nil {
		return scoring.Coefficients{}, err
	}
	if _, err := s.store.Period(ctx, orgID, periodID); err != nil {
		return scoring.Coefficients{}, err
	}
	return s.resolver.Resolve(ctx, orgID, periodID)
}

// SnapshotPeriod freezes the currently effective coefficients for the period
// so later edits to organization or system rows cannot change its results.
func (s *Service) SnapshotPeriod(ctx context.Context, orgID, periodID string) (scoring.Coefficients, error) {
	coeffs, err := s.Coefficients(ctx, orgID, periodID)
	if err != nil {
		return scoring.Coefficients{}, err
	}
	if err := s.store.SnapshotPeriod(ctx, orgID, periodID, coeffs); err != nil {
		return scoring.Coefficients{}, err
	}
	coeffs.Snapshotted = true
	return coeffs, nil
}

func (s *Service) CategoryLabels(ctx context.Context, orgID, lang string) map[string]string {
	if strings.TrimSpace(lang) == "" {
		return nil
	}
	labels, err := s.store.CategoryLabels(ctx, orgID, lang)
	if err != nil {
		slog.Warn("category label lookup failed", "orgId", orgID, "lang", lang, "err", err)
		return nil
	}
	return labels
}
