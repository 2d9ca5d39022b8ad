package scoring

import (
	"math"
	"sort"
)

// Round1 rounds half away from zero to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// WeightedMean returns sum(w*v)/sum(w), or 0 when the weights sum to zero.
func WeightedMean(values, weights []float64) float64 {
	var num, den float64
	for i, v := range values {
		num += weights[i] * v
		den += weights[i]
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Score combines a target's evaluations into a TargetScore. Evaluations
// without data are excluded from every average and count. The result is a pure
// function of its inputs.
func Score(target Target, evals []PerEvaluation, c Coefficients) TargetScore {
	result := TargetScore{
		Target:    target,
		Deviation: c.Deviation,
	}

	var self, peer mean
	var values, weights []float64
	selfCats := map[string]*mean{}
	peerCats := map[string]*mean{}
	allCats := map[string]*mean{}

	for _, e := range evals {
		if !e.HasData {
			continue
		}
		result.EvaluationCount++
		level := e.EvaluatorLevel
		side := peerCats
		if e.IsSelf {
			level = LevelSelf
			side = selfCats
			self.add(e.AvgScore)
		} else {
			peer.add(e.AvgScore)
		}
		values = append(values, e.AvgScore)
		weights = append(weights, c.EvaluatorWeight(level))

		for _, cat := range e.Categories {
			if cat.AvgScore <= 0 {
				continue
			}
			addTo(side, cat.Name, cat.AvgScore)
			addTo(allCats, cat.Name, cat.AvgScore)
		}
	}

	result.SelfScore = Round1(self.value())
	result.PeerAvg = Round1(peer.value())
	result.PeerCount = peer.count
	result.OverallAvg = Round1(WeightedMean(values, weights))
	result.CategoryCompare = compareCategories(selfCats, peerCats, c)
	result.CategoryWeightedAvg = Round1(categoryWeighted(allCats, c))
	result.Swot = DeriveSwot(result.CategoryCompare)

	conf := EstimateConfidence(result.PeerCount, c.Confidence.MinHighConfidenceEvaluatorCount)
	result.ConfidenceCoeff = conf.Coeff
	result.ConfidenceLabel = conf.Label
	return result
}

func addTo(m map[string]*mean, key string, v float64) {
	acc, ok := m[key]
	if !ok {
		acc = &mean{}
		m[key] = acc
	}
	acc.add(v)
}

func compareCategories(selfCats, peerCats map[string]*mean, c Coefficients) []CategoryCompare {
	names := map[string]struct{}{}
	for name := range selfCats {
		names[name] = struct{}{}
	}
	for name := range peerCats {
		names[name] = struct{}{}
	}

	out := make([]CategoryCompare, 0, len(names))
	for name := range names {
		row := CategoryCompare{Name: name, Weight: c.CategoryWeight(name)}
		if m, ok := selfCats[name]; ok {
			row.HasSelf = true
			row.Self = Round1(m.value())
		}
		if m, ok := peerCats[name]; ok {
			row.HasPeer = true
			row.Peer = Round1(m.value())
		}
		if row.HasSelf && row.HasPeer {
			row.Diff = Round1(row.Self - row.Peer)
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func categoryWeighted(cats map[string]*mean, c Coefficients) float64 {
	names := make([]string, 0, len(cats))
	for name := range cats {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]float64, 0, len(names))
	weights := make([]float64, 0, len(names))
	for _, name := range names {
		values = append(values, cats[name].value())
		weights = append(weights, c.CategoryWeight(name))
	}
	return WeightedMean(values, weights)
}

// GroupByTarget splits evaluations by target id, preserving first-seen order of targets.
func GroupByTarget(evals []PerEvaluation) ([]string, map[string][]PerEvaluation) {
	var order []string
	groups := map[string][]PerEvaluation{}
	for _, e := range evals {
		if _, ok := groups[e.TargetID]; !ok {
			order = append(order, e.TargetID)
		}
		groups[e.TargetID] = append(groups[e.TargetID], e)
	}
	return order, groups
}
