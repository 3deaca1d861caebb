package api

import (
	"github.com/gin-gonic/gin"

	"gilnokie-backend/internal/model"
	"gilnokie-backend/internal/store"
)

var (
	allocationErrors = errText{reference: "Invalid job card or stock reference"}
	stockRefErrors   = errText{conflict: "Stock reference number already exists", reference: "Invalid yarn type"}
)

// Yarn stock allocations

// ListAllocations handles GET /api/yarn-stock.
func (h *Handler) ListAllocations(c *gin.Context) {
	allocations, err := h.store.ListAllocations(c.Request.Context(), store.AllocationFilter{
		JobCardID:  c.Query("jobCardId"),
		StockRefID: c.Query("stockRefId"),
	})
	if err != nil {
		h.fail(c, err, allocationErrors)
		return
	}
	respondSuccess(c, allocations)
}

// CreateAllocation handles POST /api/yarn-stock. The first allocation against a job card
// moves its yarn allocation status from pending to partial.
func (h *Handler) CreateAllocation(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	if !b.allTruthy("jobCardId", "stockRefId", "quantityReceived") {
		badRequest(c, "Missing required fields: jobCardId, stockRefId, quantityReceived")
		return
	}
	var allocation model.YarnStockJobCard
	if err := decodeModel(b, &allocation); err != nil {
		h.fail(c, err, allocationErrors)
		return
	}
	if err := h.store.CreateAllocation(c.Request.Context(), &allocation); err != nil {
		h.fail(c, err, allocationErrors)
		return
	}
	respondSuccess(c, allocation)
}

// GetAllocation handles GET /api/yarn-stock/:id.
func (h *Handler) GetAllocation(c *gin.Context) {
	allocation, err := h.store.GetAllocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, allocationErrors)
		return
	}
	respondSuccess(c, allocation)
}

// UpdateAllocation handles PUT /api/yarn-stock/:id.
func (h *Handler) UpdateAllocation(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	fields, err := patchFields(b, &model.YarnStockJobCard{}, "jobCardId", "stockRefId")
	if err != nil {
		h.fail(c, err, allocationErrors)
		return
	}
	allocation, err := h.store.UpdateAllocation(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.fail(c, err, allocationErrors)
		return
	}
	respondSuccess(c, allocation)
}

// DeleteAllocation handles DELETE /api/yarn-stock/:id.
func (h *Handler) DeleteAllocation(c *gin.Context) {
	if err := h.store.DeleteAllocation(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, allocationErrors)
		return
	}
	respondDeleted(c, "Yarn stock allocation deleted successfully")
}

// Stock references

// ListStockReferences handles GET /api/stock-references.
func (h *Handler) ListStockReferences(c *gin.Context) {
	refs, err := h.store.ListStockReferences(c.Request.Context())
	if err != nil {
		h.fail(c, err, stockRefErrors)
		return
	}
	respondSuccess(c, refs)
}

// CreateStockReference handles POST /api/stock-references. initialQuantity is accepted in
// place of currentQuantity.
func (h *Handler) CreateStockReference(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	if b.isNull("currentQuantity") && !b.isNull("initialQuantity") {
		b["currentQuantity"] = b["initialQuantity"]
	}
	if !b.truthy("yarnTypeId") || b.isNull("currentQuantity") {
		badRequest(c, "Missing required fields: yarnTypeId, currentQuantity")
		return
	}
	delete(b, "stockReferenceNumber")
	delete(b, "stockDate")

	var ref model.YarnStockReference
	if err := decodeModel(b, &ref); err != nil {
		h.fail(c, err, stockRefErrors)
		return
	}
	if err := h.store.CreateStockReference(c.Request.Context(), &ref); err != nil {
		h.fail(c, err, stockRefErrors)
		return
	}
	respondSuccess(c, ref)
}

// GetStockReference handles GET /api/stock-references/:id.
func (h *Handler) GetStockReference(c *gin.Context) {
	ref, err := h.store.GetStockReference(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, stockRefErrors)
		return
	}
	respondSuccess(c, ref)
}

// UpdateStockReference handles PATCH /api/stock-references/:id.
func (h *Handler) UpdateStockReference(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	fields, err := patchFields(b, &model.YarnStockReference{}, "stockReferenceNumber")
	if err != nil {
		h.fail(c, err, stockRefErrors)
		return
	}
	ref, err := h.store.UpdateStockReference(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.fail(c, err, stockRefErrors)
		return
	}
	respondSuccess(c, ref)
}

// DeleteStockReference handles DELETE /api/stock-references/:id.
func (h *Handler) DeleteStockReference(c *gin.Context) {
	if err := h.store.DeactivateStockReference(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, stockRefErrors)
		return
	}
	respondDeleted(c, "Stock reference deleted successfully")
}
