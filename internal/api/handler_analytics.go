package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gilnokie-backend/internal/parse"
	"gilnokie-backend/internal/stats"
)

type rollRange struct {
	MinRolls *int `json:"minRolls"`
	MaxRolls *int `json:"maxRolls"`
}

type rollEstimate struct {
	HasHistoricalData   bool              `json:"hasHistoricalData"`
	Message             string            `json:"message,omitempty"`
	KilosRequested      float64           `json:"kilosRequested"`
	EstimatedRolls      *int              `json:"estimatedRolls"`
	EstimatedRollsExact *float64          `json:"estimatedRollsExact,omitempty"`
	AvgRollWeight       *float64          `json:"avgRollWeight"`
	MinRollWeight       *float64          `json:"minRollWeight,omitempty"`
	MaxRollWeight       *float64          `json:"maxRollWeight,omitempty"`
	Range               *rollRange        `json:"range,omitempty"`
	SampleSize          int               `json:"sampleSize,omitempty"`
	Confidence          *stats.Confidence `json:"confidence"`
}

func round2(v float64) *float64 {
	r := stats.Round(v, 2)
	return &r
}

// EstimateRolls handles GET /api/analytics/estimate-rolls.
func (h *Handler) EstimateRolls(c *gin.Context) {
	qualityID, rawKilos := c.Query("qualityId"), c.Query("kilos")
	if qualityID == "" || rawKilos == "" {
		badRequest(c, "Missing required parameters: qualityId and kilos")
		return
	}
	kilos, err := strconv.ParseFloat(rawKilos, 64)
	if err != nil || kilos <= 0 {
		badRequest(c, "Invalid kilos value")
		return
	}

	weights, err := h.store.RollWeights(c.Request.Context(), qualityID)
	if err != nil {
		h.fail(c, err, errText{})
		return
	}
	summary := stats.Summarize(weights)
	est, ok := stats.EstimateRolls(kilos, summary)
	if !ok {
		respondSuccess(c, rollEstimate{
			HasHistoricalData: false,
			Message:           "No historical production data available for this quality",
			KilosRequested:    kilos,
		})
		return
	}

	respondSuccess(c, rollEstimate{
		HasHistoricalData:   true,
		KilosRequested:      kilos,
		EstimatedRolls:      &est.Rolls,
		EstimatedRollsExact: &est.RollsExact,
		AvgRollWeight:       round2(summary.Mean),
		MinRollWeight:       round2(summary.Min),
		MaxRollWeight:       round2(summary.Max),
		Range:               &rollRange{MinRolls: est.MinRolls, MaxRolls: est.MaxRolls},
		SampleSize:          summary.Count,
		Confidence:          &est.Confidence,
	})
}

type qualityRollAverage struct {
	QualityID          string   `json:"qualityId"`
	QualityCode        string   `json:"qualityCode"`
	QualityDescription *string  `json:"qualityDescription"`
	TotalRolls         int      `json:"totalRolls"`
	TotalWeightKg      float64  `json:"totalWeightKg"`
	AvgRollWeightKg    float64  `json:"avgRollWeightKg"`
	MinRollWeightKg    float64  `json:"minRollWeightKg"`
	MaxRollWeightKg    float64  `json:"maxRollWeightKg"`
	StdDevWeight       *float64 `json:"stdDevWeight"`
	RollsPer1000Kg     *float64 `json:"rollsPer1000Kg"`
}

type overallRollAverage struct {
	TotalQualities          int     `json:"totalQualities"`
	TotalRollsAllQualities  int     `json:"totalRollsAllQualities"`
	TotalWeightAllQualities float64 `json:"totalWeightAllQualities"`
	OverallAvgRollWeight    float64 `json:"overallAvgRollWeight"`
}

// RollAverages handles GET /api/analytics/roll-averages.
func (h *Handler) RollAverages(c *gin.Context) {
	groups, err := h.store.RollWeightsByQuality(c.Request.Context())
	if err != nil {
		h.fail(c, err, errText{})
		return
	}

	byQuality := make([]qualityRollAverage, 0, len(groups))
	var overall overallRollAverage
	for _, g := range groups {
		s := stats.Summarize(g.Weights)
		if s.Count == 0 {
			continue
		}
		avg := qualityRollAverage{
			QualityID:          g.QualityID,
			QualityCode:        g.QualityCode,
			QualityDescription: g.Description,
			TotalRolls:         s.Count,
			TotalWeightKg:      stats.Round(s.Total, 2),
			AvgRollWeightKg:    stats.Round(s.Mean, 2),
			MinRollWeightKg:    stats.Round(s.Min, 2),
			MaxRollWeightKg:    stats.Round(s.Max, 2),
			RollsPer1000Kg:     stats.RollsPer1000Kg(s.Mean),
		}
		if s.StdDev != nil {
			avg.StdDevWeight = round2(*s.StdDev)
		}
		byQuality = append(byQuality, avg)

		overall.TotalRollsAllQualities += avg.TotalRolls
		overall.TotalWeightAllQualities += avg.TotalWeightKg
	}
	overall.TotalQualities = len(byQuality)
	overall.TotalWeightAllQualities = stats.Round(overall.TotalWeightAllQualities, 2)
	if overall.TotalRollsAllQualities > 0 {
		overall.OverallAvgRollWeight = stats.Round(overall.TotalWeightAllQualities/float64(overall.TotalRollsAllQualities), 2)
	}

	respondSuccess(c, gin.H{"byQuality": byQuality, "overall": overall})
}

// Dashboard handles GET /api/analytics/dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	counts, err := h.store.Dashboard(c.Request.Context(), h.today())
	if err != nil {
		h.fail(c, err, errText{})
		return
	}
	respondSuccess(c, counts)
}

// Health handles GET /api/health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
		"service":   "gilnokie-gms",
	})
}

// today returns the start of the current UTC day.
func (h *Handler) today() time.Time {
	start, _ := parse.DayRange(h.now())
	return start
}
