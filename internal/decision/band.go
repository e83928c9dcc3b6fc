package decision

import "math"

type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// Color is the badge colour admins see for a band.
func (b Band) Color() string {
	switch b {
	case BandHigh:
		return "green"
	case BandMedium:
		return "yellow"
	}
	return "red"
}

const (
	HighConfidence   = 0.9
	MediumConfidence = 0.7
)

// ConfidenceBand buckets c after clamping it to [0,1]. NaN counts as 0.
func ConfidenceBand(c float64) Band {
	if math.IsNaN(c) {
		c = 0
	}
	c = math.Max(0, math.Min(1, c))
	switch {
	case c >= HighConfidence:
		return BandHigh
	case c >= MediumConfidence:
		return BandMedium
	default:
		return BandLow
	}
}
