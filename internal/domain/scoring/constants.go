package scoring

const (
	LevelSelf        = "self"
	LevelExecutive   = "executive"
	LevelManager     = "manager"
	LevelPeer        = "peer"
	LevelSubordinate = "subordinate"

	AssignmentStatusPending   = "pending"
	AssignmentStatusCompleted = "completed"

	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Likert scale bounds. Zero means "no information" and never enters an average.
const (
	MinScore = 0.0
	MaxScore = 5.0
)

// Confidence coefficients per band.
const (
	HighConfidenceCoeff   = 1.0
	MediumConfidenceCoeff = 0.9
	LowConfidenceCoeff    = 0.8
)

// SWOT thresholds and list sizes on the 0-5 scale.
const (
	StrengthThreshold = 3.5
	MaxStrengths      = 6
	MaxWeaknesses     = 6
	MaxOpportunities  = 4
)

// Compensation damping: low-confidence scores swing at 60% of the full range.
const (
	compensationMidpoint  = 0.5
	compensationBaseSwing = 0.6
	compensationConfSwing = 0.4
	degeneratePoolNorm    = 0.5
	actionPlanCategories  = 2
)

// Levels lists every recognised evaluator position level.
var Levels = []string{LevelSelf, LevelExecutive, LevelManager, LevelPeer, LevelSubordinate}

// NormalizeLevel maps an evaluator level onto a recognised level, defaulting to peer.
func NormalizeLevel(level string) string {
	switch level {
	case LevelSelf, LevelExecutive, LevelManager, LevelPeer, LevelSubordinate:
		return level
	default:
		return LevelPeer
	}
}
