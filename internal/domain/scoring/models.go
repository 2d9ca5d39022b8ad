package scoring

import (
	"fmt"
	"strings"
	"time"
)

// Assignment is one completed (evaluator, target, period) evaluation, joined with the
// evaluator's position level and the target's department and manager.
type Assignment struct {
	ID             string     `json:"id"`
	PeriodID       string     `json:"periodId"`
	EvaluatorID    string     `json:"evaluatorId"`
	TargetID       string     `json:"targetId"`
	Status         string     `json:"status"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	EvaluatorLevel string     `json:"evaluatorLevel"`
	TargetName     string     `json:"targetName"`
	Department     string     `json:"department"`
	ManagerID      string     `json:"managerId"`
}

func (a Assignment) IsSelf() bool {
	return a.EvaluatorID == a.TargetID
}

func (a Assignment) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return Validation("assignment id is required", "check the assignment export for blank ids")
	}
	if strings.TrimSpace(a.EvaluatorID) == "" || strings.TrimSpace(a.TargetID) == "" {
		return Validation(fmt.Sprintf("assignment %s needs evaluator and target", a.ID), "assign both evaluator and target before scoring")
	}
	if a.Status != "" && a.Status != AssignmentStatusPending && a.Status != AssignmentStatusCompleted {
		return Validation(fmt.Sprintf("assignment %s has unknown status %q", a.ID, a.Status), "use pending or completed")
	}
	return nil
}

// Response is one answered question. ReelScore is the organization-adjusted
// score; StdScore is used only when ReelScore is absent.
type Response struct {
	AssignmentID string   `json:"assignmentId"`
	QuestionID   string   `json:"questionId"`
	CategoryName string   `json:"categoryName"`
	CategoryID   string   `json:"categoryId,omitempty"`
	StdScore     *float64 `json:"stdScore,omitempty"`
	ReelScore    *float64 `json:"reelScore,omitempty"`
}

// Value returns reel_score ?? std_score, or 0 when both are absent.
func (r Response) Value() float64 {
	if r.ReelScore != nil {
		return *r.ReelScore
	}
	if r.StdScore != nil {
		return *r.StdScore
	}
	return 0
}

// Counts reports whether the response carries a usable score.
func (r Response) Counts() bool {
	v := r.Value()
	return v > MinScore && v <= MaxScore
}

func (r Response) Validate() error {
	if strings.TrimSpace(r.AssignmentID) == "" {
		return Validation("response assignment id is required", "drop orphaned response rows")
	}
	for _, score := range []*float64{r.StdScore, r.ReelScore} {
		if score != nil && (*score < MinScore || *score > MaxScore) {
			return Validation(fmt.Sprintf("response %s/%s score %.2f outside 0-5", r.AssignmentID, r.QuestionID, *score), "rescale scores to the 0-5 Likert range")
		}
	}
	return nil
}

// Target identifies the person being scored.
type Target struct {
	ID         string `json:"targetId"`
	Name       string `json:"targetName"`
	Department string `json:"department"`
	ManagerID  string `json:"managerId"`
}

// CategoryScore is a per-evaluation category mean.
type CategoryScore struct {
	Name     string  `json:"name"`
	AvgScore float64 `json:"avgScore"`
}

// PerEvaluation is the aggregate of one assignment's responses.
type PerEvaluation struct {
	AssignmentID   string          `json:"assignmentId"`
	EvaluatorID    string          `json:"evaluatorId"`
	TargetID       string          `json:"targetId"`
	IsSelf         bool            `json:"isSelf"`
	EvaluatorLevel string          `json:"evaluatorLevel"`
	AvgScore       float64         `json:"avgScore"`
	HasData        bool            `json:"hasData"`
	Categories     []CategoryScore `json:"categories"`
}

// CategoryCompare holds the self and peer view of one category.
type CategoryCompare struct {
	Name    string  `json:"name"`
	Self    float64 `json:"self"`
	Peer    float64 `json:"peer"`
	Diff    float64 `json:"diff"`
	Weight  float64 `json:"weight"`
	HasSelf bool    `json:"hasSelf"`
	HasPeer bool    `json:"hasPeer"`
}

// Combined returns the peer score when present, else the self score.
func (c CategoryCompare) Combined() float64 {
	if c.HasPeer {
		return c.Peer
	}
	return c.Self
}

type Confidence struct {
	Coeff float64 `json:"coeff"`
	Label string  `json:"label"`
}

type SwotItem struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type Swot struct {
	Strengths       []SwotItem `json:"strengths"`
	Weaknesses      []SwotItem `json:"weaknesses"`
	Opportunities   []SwotItem `json:"opportunities"`
	Recommendations []string   `json:"recommendations"`
}

type SwotReport struct {
	Self Swot `json:"self"`
	Peer Swot `json:"peer"`
}

// TargetScore is the derived, never persisted scoring result for one target.
type TargetScore struct {
	Target
	OverallAvg          float64           `json:"overallAvg"`
	SelfScore           float64           `json:"selfScore"`
	PeerAvg             float64           `json:"peerAvg"`
	PeerCount           int               `json:"peerCount"`
	EvaluationCount     int               `json:"evaluationCount"`
	CategoryCompare     []CategoryCompare `json:"categoryCompare"`
	CategoryWeightedAvg float64           `json:"categoryWeightedAvg"`
	Swot                SwotReport        `json:"swot"`
	ConfidenceCoeff     float64           `json:"confidenceCoeff"`
	ConfidenceLabel     string            `json:"confidenceLabel"`
	Deviation           DeviationSettings `json:"deviation"`
}

// CompensationRow is one recommended raise.
type CompensationRow struct {
	Target
	Pool            PoolType `json:"pool"`
	PoolKey         string   `json:"poolKey"`
	OverallAvg      float64  `json:"overallAvg"`
	EvaluatorCount  int      `json:"evaluatorCount"`
	Confidence      float64  `json:"confidence"`
	NormalizedScore float64  `json:"normalizedScore"`
	RecommendedPct  float64  `json:"recommendedPct"`
	Rationale       string   `json:"rationale"`
	ActionPlan      []string `json:"actionPlan"`
}
