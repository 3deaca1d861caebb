package stats

import (
	"math"

	"github.com/shopspring/decimal"
)

// Confidence grades an estimate by how many historical rolls back it.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ConfidenceFor maps a sample size to a confidence grade.
func ConfidenceFor(sampleSize int) Confidence {
	switch {
	case sampleSize < 10:
		return ConfidenceLow
	case sampleSize < 50:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// RollSummary is the distribution of roll weights for a set of pieces.
type RollSummary struct {
	Count int
	Total float64
	Mean  float64
	Min   float64
	Max   float64
	// StdDev is the sample standard deviation; nil below two rolls.
	StdDev *float64
}

// Summarize computes a RollSummary in a single pass over weights.
func Summarize(weights []float64) RollSummary {
	s := RollSummary{Count: len(weights)}
	if s.Count == 0 {
		return s
	}
	s.Min, s.Max = weights[0], weights[0]
	for _, w := range weights {
		s.Total += w
		s.Min = math.Min(s.Min, w)
		s.Max = math.Max(s.Max, w)
	}
	s.Mean = s.Total / float64(s.Count)

	if s.Count > 1 {
		var sq float64
		for _, w := range weights {
			d := w - s.Mean
			sq += d * d
		}
		sd := math.Sqrt(sq / float64(s.Count-1))
		s.StdDev = &sd
	}
	return s
}

// Estimate is the projected number of rolls needed for a target weight.
type Estimate struct {
	Rolls      int
	RollsExact float64
	// MinRolls assumes every roll is as heavy as the heaviest seen; nil without data.
	MinRolls *int
	// MaxRolls assumes every roll is as light as the lightest seen; nil without data.
	MaxRolls   *int
	Confidence Confidence
}

// EstimateRolls projects how many rolls kilos of fabric will yield given history s.
// ok is false when there is no usable history.
func EstimateRolls(kilos float64, s RollSummary) (Estimate, bool) {
	if s.Count == 0 || s.Mean <= 0 {
		return Estimate{}, false
	}
	exact := kilos / s.Mean
	est := Estimate{
		Rolls:      int(math.Round(exact)),
		RollsExact: Round(exact, 2),
		Confidence: ConfidenceFor(s.Count),
	}
	if s.Max > 0 {
		n := int(math.Floor(kilos / s.Max))
		est.MinRolls = &n
	}
	if s.Min > 0 {
		n := int(math.Ceil(kilos / s.Min))
		est.MaxRolls = &n
	}
	return est, true
}

// RollsPer1000Kg returns how many average rolls make up a tonne, to one decimal.
func RollsPer1000Kg(mean float64) *float64 {
	if mean <= 0 {
		return nil
	}
	v := Round(1000/mean, 1)
	return &v
}

// Floats converts decimal weights for statistical work.
func Floats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}
