package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"gilnokie-backend/internal/model"
	"gilnokie-backend/internal/parse"
	"gilnokie-backend/internal/store"
)

var (
	pieceErrors = errText{conflict: "Piece number already exists", reference: "Invalid job card"}
	batchErrors = errText{conflict: "One or more piece numbers already exist", reference: "Invalid job card"}
)

// ListProduction handles GET /api/production.
func (h *Handler) ListProduction(c *gin.Context) {
	f := store.ProductionFilter{JobCardID: c.Query("jobCardId")}
	if raw := c.Query("date"); raw != "" {
		d, err := parse.Date(raw)
		if err != nil {
			badRequest(c, "Invalid date")
			return
		}
		f.Date = &d
	}
	pieces, err := h.store.ListProduction(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err, pieceErrors)
		return
	}
	respondData(c, http.StatusOK, pieces)
}

// decodePiece reads the fields shared by single and bulk production entries. The clock
// reading in productionTime ("HH:mm") is combined with productionDate.
func (h *Handler) decodePiece(b body) (model.ProductionInfo, error) {
	clock := b.str("productionTime")
	delete(b, "productionTime")
	delete(b, "pieceNumber")

	var p model.ProductionInfo
	if err := decodeModel(b, &p); err != nil {
		return p, err
	}
	if p.ProductionDate.IsZero() {
		p.ProductionDate = h.now().UTC()
	}
	p.ProductionTime = parse.ProductionTime(p.ProductionDate, clock)
	if p.ProductionTime == nil && clock != "" {
		if t, err := parse.Date(clock); err == nil {
			p.ProductionTime = &t
		}
	}
	return p, nil
}

// CreateProduction handles POST /api/production.
func (h *Handler) CreateProduction(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	if !b.truthy("jobCardId") {
		badRequest(c, "jobCardId is required")
		return
	}
	piece, err := h.decodePiece(b)
	if err != nil {
		h.fail(c, err, pieceErrors)
		return
	}
	if !piece.Weight.IsPositive() {
		badRequest(c, "Weight must be a positive number")
		return
	}
	if err := h.store.CreateProduction(c.Request.Context(), &piece); err != nil {
		h.fail(c, err, pieceErrors)
		return
	}
	respondData(c, http.StatusCreated, piece)
}

// rollWeights reads the rolls array of a bulk request. Every weight must be a positive
// JSON number.
func rollWeights(b body) ([]decimal.Decimal, error) {
	var rolls []struct {
		Weight json.RawMessage `json:"weight"`
	}
	if b.isNull("rolls") || json.Unmarshal(b["rolls"], &rolls) != nil || len(rolls) == 0 {
		return nil, &requestError{msg: "rolls array is required and must contain at least one item"}
	}
	weights := make([]decimal.Decimal, len(rolls))
	for i, r := range rolls {
		raw := strings.TrimSpace(string(r.Weight))
		w, err := decimal.NewFromString(raw)
		if raw == "" || strings.HasPrefix(raw, `"`) || err != nil || !w.IsPositive() {
			return nil, &requestError{msg: "Each roll must have a valid weight (positive number)"}
		}
		weights[i] = w
	}
	return weights, nil
}

// CreateProductionBatch handles POST /api/production/bulk. All rolls are recorded or none.
func (h *Handler) CreateProductionBatch(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	switch {
	case !b.truthy("jobCardId"):
		badRequest(c, "jobCardId is required")
		return
	case !b.truthy("machineNumber"):
		badRequest(c, "machineNumber is required for piece number generation")
		return
	}
	weights, err := rollWeights(b)
	if err != nil {
		h.fail(c, err, batchErrors)
		return
	}
	delete(b, "rolls")
	delete(b, "weight")

	template, err := h.decodePiece(b)
	if err != nil {
		h.fail(c, err, batchErrors)
		return
	}
	pieces, err := h.store.CreateProductionBatch(c.Request.Context(), store.BulkProduction{
		JobCardID:     template.JobCardID,
		MachineNumber: b.str("machineNumber"),
		Template:      template,
		Weights:       weights,
	})
	if err != nil {
		h.fail(c, err, batchErrors)
		return
	}
	respondData(c, http.StatusCreated, pieces)
}

