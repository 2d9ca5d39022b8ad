package evaluation

import (
	"time"

	"review360/internal/domain/scoring"
)

type Period struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organizationId"`
	Name           string     `json:"name"`
	StartDate      time.Time  `json:"startDate"`
	EndDate        time.Time  `json:"endDate"`
	SnapshottedAt  *time.Time `json:"snapshottedAt,omitempty"`
}

type PeriodResults struct {
	Period  Period                `json:"period"`
	Targets []scoring.TargetScore `json:"targets"`
}

type DevelopmentPlan struct {
	Period Period              `json:"period"`
	Score  scoring.TargetScore `json:"score"`
	// Gaps lists categories rated on both sides, largest absolute gap first.
	Gaps       []scoring.CategoryCompare `json:"gaps"`
	ActionPlan []string                  `json:"actionPlan"`
}

type CompensationRequest struct {
	OrganizationID string
	PeriodID       string
	Pool           string
	MinPct         *float64
	MaxPct         *float64
}

type CompensationResult struct {
	Period            Period                    `json:"period"`
	Pool              scoring.PoolType          `json:"pool"`
	MinPct            float64                   `json:"minPct"`
	MaxPct            float64                   `json:"maxPct"`
	MinHighConfidence int                       `json:"minHighConfidence"`
	Rows              []scoring.CompensationRow `json:"rows"`
}
