package evaluation

import "review360/internal/domain/scoring"

// LabelCategories swaps category keys for display labels. It runs after scoring,
// so translations never split or merge categories.
func LabelCategories(score scoring.TargetScore, labels map[string]string) scoring.TargetScore {
	if len(labels) == 0 {
		return score
	}
	label := labeler(labels)
	compare := make([]scoring.CategoryCompare, len(score.CategoryCompare))
	for i, c := range score.CategoryCompare {
		c.Name = label(c.Name)
		compare[i] = c
	}
	score.CategoryCompare = compare
	score.Swot.Self = labelSwot(score.Swot.Self, label)
	score.Swot.Peer = labelSwot(score.Swot.Peer, label)
	return score
}

func labelSwot(s scoring.Swot, label func(string) string) scoring.Swot {
	relabel := func(items []scoring.SwotItem) []scoring.SwotItem {
		if items == nil {
			return nil
		}
		out := make([]scoring.SwotItem, len(items))
		for i, it := range items {
			out[i] = scoring.SwotItem{Name: label(it.Name), Score: it.Score}
		}
		return out
	}
	s.Strengths = relabel(s.Strengths)
	s.Weaknesses = relabel(s.Weaknesses)
	s.Opportunities = relabel(s.Opportunities)
	return s.WithRecommendations()
}

func labeler(labels map[string]string) func(string) string {
	return func(name string) string {
		if l, ok := labels[name]; ok && l != "" {
			return l
		}
		return name
	}
}

func LabelResults(results PeriodResults, labels map[string]string) PeriodResults {
	if len(labels) == 0 {
		return results
	}
	targets := make([]scoring.TargetScore, len(results.Targets))
	for i, t := range results.Targets {
		targets[i] = LabelCategories(t, labels)
	}
	results.Targets = targets
	return results
}

func LabelDevelopment(plan DevelopmentPlan, labels map[string]string) DevelopmentPlan {
	if len(labels) == 0 {
		return plan
	}
	label := labeler(labels)
	// Steps are chosen on canonical names, then reworded.
	weakest := scoring.WeakestCategories(plan.Score.CategoryCompare)
	for i := range weakest {
		weakest[i].Name = label(weakest[i].Name)
	}
	plan.ActionPlan = scoring.ActionSteps(weakest)
	plan.Score = LabelCategories(plan.Score, labels)
	gaps := make([]scoring.CategoryCompare, len(plan.Gaps))
	for i, g := range plan.Gaps {
		g.Name = label(g.Name)
		gaps[i] = g
	}
	plan.Gaps = gaps
	return plan
}
