package scoring

import (
	"sort"
	"strings"
)

// CategoryCatalog resolves the canonical category of a response.
type CategoryCatalog interface {
	CategoryForQuestion(questionID string) (string, bool)
	CategoryByID(categoryID string) (string, bool)
}

// Catalog is a map-backed CategoryCatalog. Names should already be the
// canonical (main category) names.
type Catalog struct {
	ByQuestion map[string]string `json:"byQuestion"`
	ByID       map[string]string `json:"byId"`
}

func (c Catalog) CategoryForQuestion(questionID string) (string, bool) {
	name, ok := c.ByQuestion[questionID]
	return name, ok && strings.TrimSpace(name) != ""
}

func (c Catalog) CategoryByID(categoryID string) (string, bool) {
	name, ok := c.ByID[categoryID]
	return name, ok && strings.TrimSpace(name) != ""
}

// CategoryKey resolves a response's category: by question, then category id,
// then the stored text. The stored text is never rewritten, only relabeled here.
func CategoryKey(r Response, catalog CategoryCatalog) string {
	if catalog != nil {
		if r.QuestionID != "" {
			if name, ok := catalog.CategoryForQuestion(r.QuestionID); ok {
				return strings.TrimSpace(name)
			}
		}
		if r.CategoryID != "" {
			if name, ok := catalog.CategoryByID(r.CategoryID); ok {
				return strings.TrimSpace(name)
			}
		}
	}
	return strings.TrimSpace(r.CategoryName)
}

type mean struct {
	sum   float64
	count int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.count++
}

func (m mean) value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

// Aggregate groups responses by assignment and computes per-evaluation and
// per-category means over non-zero scores. Output follows assignment order;
// responses of unknown assignments are ignored.
func Aggregate(assignments []Assignment, responses []Response, catalog CategoryCatalog) []PerEvaluation {
	byAssignment := make(map[string][]Response, len(assignments))
	for _, r := range responses {
		byAssignment[r.AssignmentID] = append(byAssignment[r.AssignmentID], r)
	}

	out := make([]PerEvaluation, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, aggregateOne(a, byAssignment[a.ID], catalog))
	}
	return out
}

func aggregateOne(a Assignment, responses []Response, catalog CategoryCatalog) PerEvaluation {
	eval := PerEvaluation{
		AssignmentID:   a.ID,
		EvaluatorID:    a.EvaluatorID,
		TargetID:       a.TargetID,
		IsSelf:         a.IsSelf(),
		EvaluatorLevel: NormalizeLevel(a.EvaluatorLevel),
	}
	if eval.IsSelf {
		eval.EvaluatorLevel = LevelSelf
	}

	var overall mean
	categories := map[string]*mean{}
	for _, r := range responses {
		if !r.Counts() {
			continue
		}
		v := r.Value()
		overall.add(v)
		key := CategoryKey(r, catalog)
		if key == "" {
			continue
		}
		m, ok := categories[key]
		if !ok {
			m = &mean{}
			categories[key] = m
		}
		m.add(v)
	}

	eval.HasData = overall.count > 0
	eval.AvgScore = overall.value()
	eval.Categories = make([]CategoryScore, 0, len(categories))
	for name, m := range categories {
		eval.Categories = append(eval.Categories, CategoryScore{Name: name, AvgScore: m.value()})
	}
	sort.Slice(eval.Categories, func(i, j int) bool {
		return eval.Categories[i].Name < eval.Categories[j].Name
	})
	return eval
}
