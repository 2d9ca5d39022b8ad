package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// PoolType selects the comparison group used to normalize scores.
type PoolType string

const (
	PoolOrganization PoolType = "org"
	PoolDepartment   PoolType = "department"
	PoolManager      PoolType = "manager"
)

func ParsePool(raw string) (PoolType, error) {
	switch PoolType(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PoolOrganization:
		return PoolOrganization, nil
	case PoolDepartment:
		return PoolDepartment, nil
	case PoolManager:
		return PoolManager, nil
	default:
		return "", Validation(fmt.Sprintf("unknown pool %q", raw), "use one of org, department, manager")
	}
}

type CompensationParams struct {
	Pool              PoolType
	MinPct            float64
	MaxPct            float64
	MinHighConfidence int
}

func (p CompensationParams) Validate() error {
	if math.IsNaN(p.MinPct) || math.IsNaN(p.MaxPct) {
		return Validation("minPct and maxPct must be numbers", "pass numeric minPct and maxPct")
	}
	if p.MaxPct < p.MinPct {
		return &Error{
			Kind:    KindValidation,
			Message: fmt.Sprintf("maxPct %.1f is below minPct %.1f", p.MaxPct, p.MinPct),
			Hint:    "swap the bounds or raise maxPct",
			Err:     ErrInvalidPctRange,
		}
	}
	if p.MinHighConfidence < 1 {
		return Validation("min high confidence evaluator count must be at least 1", "fix confidence settings for the organization")
	}
	if _, err := ParsePool(string(p.Pool)); err != nil {
		return err
	}
	return nil
}

// Recommend normalizes each target's overall score within its pool, damps it
// by evaluator confidence and maps it onto [MinPct, MaxPct]. Targets without
// data get no row. Rows are sorted by recommended pct, highest first.
func Recommend(targets []TargetScore, params CompensationParams) ([]CompensationRow, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	pool, _ := ParsePool(string(params.Pool))

	eligible := make([]TargetScore, 0, len(targets))
	for _, t := range targets {
		if t.OverallAvg > 0 {
			eligible = append(eligible, t)
		}
	}
	if len(eligible) == 0 {
		return nil, &Error{
			Kind:    KindNotFound,
			Message: "no targets have scored evaluations in this period",
			Hint:    "wait for evaluations to be completed before requesting recommendations",
			Err:     ErrNoScoredTargets,
		}
	}

	pools := map[string][]TargetScore{}
	var keys []string
	for _, t := range eligible {
		key, ok := poolKey(pool, t)
		if !ok {
			continue
		}
		if _, seen := pools[key]; !seen {
			keys = append(keys, key)
		}
		pools[key] = append(pools[key], t)
	}
	if pool == PoolManager && len(pools) == 0 {
		return nil, Configuration(
			"no managers are assigned to the evaluated targets",
			"assign managers to users, or switch the pool to org or department",
			ErrManagersNotConfigured,
		)
	}

	rows := make([]CompensationRow, 0, len(eligible))
	for _, key := range keys {
		members := pools[key]
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, m := range members {
			lo = math.Min(lo, m.OverallAvg)
			hi = math.Max(hi, m.OverallAvg)
		}
		for _, m := range members {
			rows = append(rows, recommendOne(m, pool, key, lo, hi, params))
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].RecommendedPct == rows[j].RecommendedPct {
			if rows[i].Name == rows[j].Name {
				return rows[i].ID < rows[j].ID
			}
			return rows[i].Name < rows[j].Name
		}
		return rows[i].RecommendedPct > rows[j].RecommendedPct
	})
	return rows, nil
}

func poolKey(pool PoolType, t TargetScore) (string, bool) {
	switch pool {
	case PoolDepartment:
		return strings.TrimSpace(t.Department), true
	case PoolManager:
		key := strings.TrimSpace(t.ManagerID)
		return key, key != ""
	default:
		return string(PoolOrganization), true
	}
}

// NormalizeInPool maps score into [0,1] against the pool's range; a
// degenerate pool yields the midpoint.
func NormalizeInPool(score, lo, hi float64) float64 {
	if hi == lo {
		return degeneratePoolNorm
	}
	return (score - lo) / (hi - lo)
}

// DampedScore pulls perfNorm toward 0.5 as confidence drops.
func DampedScore(perfNorm, conf float64) float64 {
	swing := compensationBaseSwing + compensationConfSwing*conf
	return clamp(compensationMidpoint+(perfNorm-compensationMidpoint)*swing, 0, 1)
}

func recommendOne(t TargetScore, pool PoolType, key string, lo, hi float64, params CompensationParams) CompensationRow {
	perfNorm := NormalizeInPool(t.OverallAvg, lo, hi)
	conf := evaluatorConfidence(t.PeerCount, params.MinHighConfidence)
	score := DampedScore(perfNorm, conf)
	pct := Round1(params.MinPct + (params.MaxPct-params.MinPct)*score)

	return CompensationRow{
		Target:          t.Target,
		Pool:            pool,
		PoolKey:         key,
		OverallAvg:      t.OverallAvg,
		EvaluatorCount:  t.PeerCount,
		Confidence:      conf,
		NormalizedScore: score,
		RecommendedPct:  pct,
		Rationale: fmt.Sprintf("Overall score %.1f/5 from %d evaluators; confidence %d%%; normalized within the %s pool.",
			t.OverallAvg, t.PeerCount, int(math.Round(conf*100)), poolLabel(pool, key)),
		ActionPlan: ActionPlan(t.CategoryCompare),
	}
}

func poolLabel(pool PoolType, key string) string {
	switch pool {
	case PoolDepartment:
		if key == "" {
			return "unassigned department"
		}
		return "department " + key
	case PoolManager:
		return "manager " + key
	default:
		return "organization"
	}
}

// ActionPlan lists steps for the two lowest-scoring categories.
func ActionPlan(compare []CategoryCompare) []string {
	return ActionSteps(WeakestCategories(compare))
}

// WeakestCategories picks the lowest combined scores that an action plan targets.
func WeakestCategories(compare []CategoryCompare) []SwotItem {
	items := make([]SwotItem, 0, len(compare))
	for _, c := range compare {
		if v := c.Combined(); v > 0 {
			items = append(items, SwotItem{Name: c.Name, Score: v})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score == items[j].Score {
			return items[i].Name < items[j].Name
		}
		return items[i].Score < items[j].Score
	})
	if len(items) > actionPlanCategories {
		items = items[:actionPlanCategories]
	}
	return items
}

func ActionSteps(items []SwotItem) []string {
	if len(items) == 0 {
		return []string{"Insufficient category data to build an action plan."}
	}
	plan := make([]string, 0, len(items))
	for _, item := range items {
		plan = append(plan, fmt.Sprintf("Improve %s (currently %.1f/5) through a targeted development goal and a mid-period check-in.", item.Name, item.Score))
	}
	return plan
}
