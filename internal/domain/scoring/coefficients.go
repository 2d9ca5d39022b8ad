package scoring

import (
	"context"
	"strings"
)

// ConfidenceSettings tunes the confidence estimator.
type ConfidenceSettings struct {
	MinHighConfidenceEvaluatorCount int `json:"minHighConfidenceEvaluatorCount"`
}

// DeviationSettings are carried through to results unapplied. No scoring step
// consumes them yet; product has not defined their effect.
type DeviationSettings struct {
	LenientDiffThreshold float64 `json:"lenientDiffThreshold"`
	HarshDiffThreshold   float64 `json:"harshDiffThreshold"`
	LenientMultiplier    float64 `json:"lenientMultiplier"`
	HarshMultiplier      float64 `json:"harshMultiplier"`
}

// Defaults are the last-resort values used when no tier defines a key.
type Defaults struct {
	EvaluatorWeight float64
	CategoryWeight  float64
	SelfWeight      float64
	Confidence      ConfidenceSettings
	Deviation       DeviationSettings
}

// StandardDefaults weighs every evaluator and category equally and requires
// five peers for high confidence.
func StandardDefaults() Defaults {
	return Defaults{
		EvaluatorWeight: 1.0,
		CategoryWeight:  1.0,
		SelfWeight:      1.0,
		Confidence:      ConfidenceSettings{MinHighConfidenceEvaluatorCount: 5},
		Deviation: DeviationSettings{
			LenientDiffThreshold: 1.0,
			HarshDiffThreshold:   -1.0,
			LenientMultiplier:    1.0,
			HarshMultiplier:      1.0,
		},
	}
}

// Tier is one layer of coefficient overrides. Nil settings mean "not defined here".
type Tier struct {
	EvaluatorWeights map[string]float64  `json:"evaluatorWeights,omitempty"`
	CategoryWeights  map[string]float64  `json:"categoryWeights,omitempty"`
	Confidence       *ConfidenceSettings `json:"confidence,omitempty"`
	Deviation        *DeviationSettings  `json:"deviation,omitempty"`
}

// CoefficientSource reads the three override tiers from persistence.
type CoefficientSource interface {
	PeriodSnapshot(ctx context.Context, orgID, periodID string) (Tier, bool, error)
	OrganizationTier(ctx context.Context, orgID string) (Tier, error)
	SystemTier(ctx context.Context) (Tier, error)
}

// Coefficients are the effective weights and settings for one organization period.
type Coefficients struct {
	OrganizationID   string             `json:"organizationId"`
	PeriodID         string             `json:"periodId"`
	Snapshotted      bool               `json:"snapshotted"`
	EvaluatorWeights map[string]float64 `json:"evaluatorWeights"`
	CategoryWeights  map[string]float64 `json:"categoryWeights"`
	Confidence       ConfidenceSettings `json:"confidence"`
	Deviation        DeviationSettings  `json:"deviation"`
	defaults         Defaults
}

// EvaluatorWeight returns the weight for a level; unknown levels are weighed as peers.
func (c Coefficients) EvaluatorWeight(level string) float64 {
	level = NormalizeLevel(level)
	if w, ok := c.EvaluatorWeights[level]; ok {
		return w
	}
	if level == LevelSelf {
		return c.defaults.SelfWeight
	}
	return c.defaults.EvaluatorWeight
}

func (c Coefficients) CategoryWeight(name string) float64 {
	if w, ok := c.CategoryWeights[strings.TrimSpace(name)]; ok {
		return w
	}
	return c.defaults.CategoryWeight
}

// NewCoefficients builds coefficients from defaults overlaid by tiers, lowest
// precedence first.
func NewCoefficients(defaults Defaults, tiers ...Tier) Coefficients {
	c := Coefficients{
		EvaluatorWeights: map[string]float64{},
		CategoryWeights:  map[string]float64{},
		Confidence:       defaults.Confidence,
		Deviation:        defaults.Deviation,
		defaults:         defaults,
	}
	c.EvaluatorWeights[LevelSelf] = defaults.SelfWeight
	for _, level := range Levels {
		if level != LevelSelf {
			c.EvaluatorWeights[level] = defaults.EvaluatorWeight
		}
	}
	for _, tier := range tiers {
		for level, w := range tier.EvaluatorWeights {
			level = strings.TrimSpace(level)
			if w >= 0 && NormalizeLevel(level) == level {
				c.EvaluatorWeights[level] = w
			}
		}
		for name, w := range tier.CategoryWeights {
			if w >= 0 {
				c.CategoryWeights[strings.TrimSpace(name)] = w
			}
		}
		if tier.Confidence != nil && tier.Confidence.MinHighConfidenceEvaluatorCount > 0 {
			c.Confidence = *tier.Confidence
		}
		if tier.Deviation != nil {
			c.Deviation = *tier.Deviation
		}
	}
	return c
}

// Resolver resolves effective coefficients. A live period layers organization
// rows over system rows over Defaults. A snapshotted period uses only its
// snapshot over Defaults, so later edits to either table cannot reach it.
type Resolver struct {
	source   CoefficientSource
	defaults Defaults
}

func NewResolver(source CoefficientSource, defaults Defaults) *Resolver {
	return &Resolver{source: source, defaults: defaults}
}

func (r *Resolver) Defaults() Defaults {
	return r.defaults
}

func (r *Resolver) Resolve(ctx context.Context, orgID, periodID string) (Coefficients, error) {
	if strings.TrimSpace(orgID) == "" {
		return Coefficients{}, Validation("organization id is required", "sign in with an organization-scoped account")
	}
	if strings.TrimSpace(periodID) == "" {
		return Coefficients{}, Validation("period id is required", "pass periodId for the evaluation period")
	}

	system, err := r.source.SystemTier(ctx)
	if err != nil {
		return Coefficients{}, DataUnavailable("system default weights unavailable", "check database connectivity and migrations", err)
	}
	org, err := r.source.OrganizationTier(ctx, orgID)
	if err != nil {
		return Coefficients{}, DataUnavailable("organization weights unavailable", "check database connectivity and migrations", err)
	}
	snapshot, frozen, err := r.source.PeriodSnapshot(ctx, orgID, periodID)
	if err != nil {
		return Coefficients{}, DataUnavailable("period snapshot unavailable", "check database connectivity and migrations", err)
	}

	tiers := []Tier{system, org}
	if frozen {
		tiers = []Tier{snapshot}
	}
	c := NewCoefficients(r.defaults, tiers...)
	c.OrganizationID = orgID
	c.PeriodID = periodID
	c.Snapshotted = frozen
	return c, nil
}

// StaticSource serves fixed tiers, for offline scoring and tests.
type StaticSource struct {
	System       Tier
	Organization map[string]Tier
	Snapshots    map[string]Tier
}

func (s StaticSource) PeriodSnapshot(_ context.Context, _ string, periodID string) (Tier, bool, error) {
	tier, ok := s.Snapshots[periodID]
	return tier, ok, nil
}

func (s StaticSource) OrganizationTier(_ context.Context, orgID string) (Tier, error) {
	return s.Organization[orgID], nil
}

func (s StaticSource) SystemTier(context.Context) (Tier, error) {
	return s.System, nil
}
