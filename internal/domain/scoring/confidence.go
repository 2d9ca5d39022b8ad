package scoring

// EstimateConfidence maps the number of peer evaluations onto a discrete band:
// count >= minHigh is High, count >= max(1, ceil(minHigh/2)) is Medium, else Low.
func EstimateConfidence(count, minHigh int) Confidence {
	if minHigh < 1 {
		minHigh = 1
	}
	medium := (minHigh + 1) / 2
	if medium < 1 {
		medium = 1
	}

	switch {
	case count >= minHigh:
		return Confidence{Coeff: HighConfidenceCoeff, Label: ConfidenceHigh}
	case count >= medium:
		return Confidence{Coeff: MediumConfidenceCoeff, Label: ConfidenceMedium}
	default:
		return Confidence{Coeff: LowConfidenceCoeff, Label: ConfidenceLow}
	}
}

// evaluatorConfidence is the continuous confidence used by compensation damping.
func evaluatorConfidence(count, minHigh int) float64 {
	return clamp(float64(count)/float64(minHigh), 0, 1)
}
