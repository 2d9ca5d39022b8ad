package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"review360/internal/domain/evaluation"
	"review360/internal/domain/scoring"
)

// Fixture is an offline export of one period: its evaluations and the
// coefficient tiers in effect.
type Fixture struct {
	Period       evaluation.Period            `json:"period"`
	System       scoring.Tier                 `json:"system"`
	Organization scoring.Tier                 `json:"organization"`
	Snapshot     *scoring.Tier                `json:"snapshot,omitempty"`
	Catalog      scoring.Catalog              `json:"catalog"`
	Labels       map[string]map[string]string `json:"labels,omitempty"`
	Assignments  []scoring.Assignment         `json:"assignments"`
	Responses    []scoring.Response           `json:"responses"`
}

func readFixture(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(raw, &f); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture %s: %w", path, err)
	}
	if f.Period.ID == "" || f.Period.OrganizationID == "" {
		return Fixture{}, fmt.Errorf("fixture %s: period id and organizationId are required", path)
	}
	return f, nil
}

// fixtureStore serves a Fixture through the same store contract as Postgres.
type fixtureStore struct {
	scoring.StaticSource
	fixture Fixture
}

func newFixtureStore(f Fixture) *fixtureStore {
	src := scoring.StaticSource{
		System:       f.System,
		Organization: map[string]scoring.Tier{f.Period.OrganizationID: f.Organization},
		Snapshots:    map[string]scoring.Tier{},
	}
	if f.Snapshot != nil {
		src.Snapshots[f.Period.ID] = *f.Snapshot
	}
	return &fixtureStore{StaticSource: src, fixture: f}
}

func (s *fixtureStore) Period(_ context.Context, orgID, periodID string) (evaluation.Period, error) {
	p := s.fixture.Period
	if p.ID != periodID || p.OrganizationID != orgID {
		return evaluation.Period{}, scoring.NotFound("evaluation period not found", "the fixture holds period "+p.ID)
	}
	return p, nil
}

func (s *fixtureStore) ListCompletedAssignments(_ context.Context, periodID, targetID string) ([]scoring.Assignment, error) {
	out := make([]scoring.Assignment, 0, len(s.fixture.Assignments))
	for _, a := range s.fixture.Assignments {
		if a.PeriodID != periodID || a.Status != scoring.AssignmentStatusCompleted {
			continue
		}
		if targetID != "" && a.TargetID != targetID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *fixtureStore) ListResponses(_ context.Context, assignmentIDs []string) ([]scoring.Response, error) {
	wanted := make(map[string]struct{}, len(assignmentIDs))
	for _, id := range assignmentIDs {
		wanted[id] = struct{}{}
	}
	out := make([]scoring.Response, 0, len(s.fixture.Responses))
	for _, r := range s.fixture.Responses {
		if _, ok := wanted[r.AssignmentID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fixtureStore) CategoryCatalog(context.Context, string) (scoring.Catalog, error) {
	return s.fixture.Catalog, nil
}

func (s *fixtureStore) CategoryLabels(_ context.Context, _, lang string) (map[string]string, error) {
	return s.fixture.Labels[lang], nil
}

func (s *fixtureStore) SnapshotPeriod(_ context.Context, _, periodID string, c scoring.Coefficients) error {
	conf, dev := c.Confidence, c.Deviation
	s.Snapshots[periodID] = scoring.Tier{
		EvaluatorWeights: c.EvaluatorWeights,
		CategoryWeights:  c.CategoryWeights,
		Confidence:       &conf,
		Deviation:        &dev,
	}
	return nil
}
