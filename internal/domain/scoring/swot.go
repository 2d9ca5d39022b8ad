package scoring

import (
	"fmt"
	"sort"
)

// DeriveSwot classifies categories independently for the self and peer views.
//
// Opportunities are the weakest weaknesses re-surfaced as growth areas; they
// intentionally share data with the weakness list.
func DeriveSwot(compare []CategoryCompare) SwotReport {
	var selfItems, peerItems []SwotItem
	for _, c := range compare {
		if c.HasSelf {
			selfItems = append(selfItems, SwotItem{Name: c.Name, Score: c.Self})
		}
		if c.HasPeer {
			peerItems = append(peerItems, SwotItem{Name: c.Name, Score: c.Peer})
		}
	}
	return SwotReport{
		Self: deriveSide(selfItems),
		Peer: deriveSide(peerItems),
	}
}

func deriveSide(items []SwotItem) Swot {
	out := Swot{
		Strengths:       []SwotItem{},
		Weaknesses:      []SwotItem{},
		Opportunities:   []SwotItem{},
		Recommendations: []string{},
	}
	for _, item := range items {
		switch {
		case item.Score >= StrengthThreshold:
			out.Strengths = append(out.Strengths, item)
		case item.Score > 0:
			out.Weaknesses = append(out.Weaknesses, item)
		}
	}

	sort.SliceStable(out.Strengths, func(i, j int) bool {
		if out.Strengths[i].Score == out.Strengths[j].Score {
			return out.Strengths[i].Name < out.Strengths[j].Name
		}
		return out.Strengths[i].Score > out.Strengths[j].Score
	})
	sort.SliceStable(out.Weaknesses, func(i, j int) bool {
		if out.Weaknesses[i].Score == out.Weaknesses[j].Score {
			return out.Weaknesses[i].Name < out.Weaknesses[j].Name
		}
		return out.Weaknesses[i].Score < out.Weaknesses[j].Score
	})
	if len(out.Strengths) > MaxStrengths {
		out.Strengths = out.Strengths[:MaxStrengths]
	}
	if len(out.Weaknesses) > MaxWeaknesses {
		out.Weaknesses = out.Weaknesses[:MaxWeaknesses]
	}

	n := len(out.Weaknesses)
	if n > MaxOpportunities {
		n = MaxOpportunities
	}
	out.Opportunities = append(out.Opportunities, out.Weaknesses[:n]...)

	return out.WithRecommendations()
}

// WithRecommendations rebuilds the recommendation sentences from the current
// item names, so a relabelled Swot reads in one language.
func (s Swot) WithRecommendations() Swot {
	recs := []string{}
	if len(s.Weaknesses) > 0 {
		w := s.Weaknesses[0]
		recs = append(recs,
			fmt.Sprintf("Focus development on %s (%.1f/5) with a concrete improvement goal for the next period.", w.Name, w.Score))
	}
	if len(s.Strengths) > 0 {
		st := s.Strengths[0]
		recs = append(recs,
			fmt.Sprintf("Build on %s (%.1f/5) by sharing your practices with the team.", st.Name, st.Score))
	}
	s.Recommendations = recs
	return s
}
