package api

import (
	"github.com/gin-gonic/gin"

	"gilnokie-backend/internal/model"
	"gilnokie-backend/internal/store"
)

var (
	packingErrors  = errText{conflict: "Packing list number already exists", reference: "Invalid job card or production piece"}
	deliveryErrors = errText{conflict: "Delivery note number already exists", reference: "Invalid job card"}
)

func shippingFilter(c *gin.Context) store.ShippingFilter {
	return store.ShippingFilter{JobCardID: c.Query("jobCardId"), Status: c.Query("status")}
}

// Packing lists

// ListPackingLists handles GET /api/packing.
func (h *Handler) ListPackingLists(c *gin.Context) {
	lists, err := h.store.ListPackingLists(c.Request.Context(), shippingFilter(c))
	if err != nil {
		h.fail(c, err, packingErrors)
		return
	}
	respondSuccess(c, lists)
}

// CreatePackingList handles POST /api/packing. productionIds become the list's items.
func (h *Handler) CreatePackingList(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	if !b.allTruthy("jobCardId", "numberOfCartons", "totalNetWeight") {
		badRequest(c, "Missing required fields: jobCardId, numberOfCartons, totalNetWeight")
		return
	}
	productionIDs, err := b.stringList("productionIds")
	if err != nil {
		h.fail(c, err, packingErrors)
		return
	}
	delete(b, "packingListNumber")
	delete(b, "deliveryId")

	var list model.PackingList
	if err := decodeModel(b, &list); err != nil {
		h.fail(c, err, packingErrors)
		return
	}
	if err := h.store.CreatePackingList(c.Request.Context(), &list, productionIDs); err != nil {
		h.fail(c, err, packingErrors)
		return
	}
	respondSuccess(c, list)
}

// GetPackingList handles GET /api/packing/:id.
func (h *Handler) GetPackingList(c *gin.Context) {
	list, err := h.store.GetPackingList(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, packingErrors)
		return
	}
	respondSuccess(c, list)
}

// UpdatePackingList handles PUT /api/packing/:id.
func (h *Handler) UpdatePackingList(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	fields, err := patchFields(b, &model.PackingList{}, "packingListNumber", "jobCardId")
	if err != nil {
		h.fail(c, err, packingErrors)
		return
	}
	list, err := h.store.UpdatePackingList(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.fail(c, err, packingErrors)
		return
	}
	respondSuccess(c, list)
}

// DeletePackingList handles DELETE /api/packing/:id.
func (h *Handler) DeletePackingList(c *gin.Context) {
	if err := h.store.DeletePackingList(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, packingErrors)
		return
	}
	respondDeleted(c, "Packing list deleted successfully")
}

// Deliveries

// ListDeliveries handles GET /api/delivery.
func (h *Handler) ListDeliveries(c *gin.Context) {
	deliveries, err := h.store.ListDeliveries(c.Request.Context(), shippingFilter(c))
	if err != nil {
		h.fail(c, err, deliveryErrors)
		return
	}
	respondSuccess(c, deliveries)
}

// notifyDelivered pushes the completion of the delivery's job card.
func (h *Handler) notifyDelivered(change *store.DeliveryChange) {
	if change.CompletedJobCard && change.Delivery.JobCard != nil {
		h.notifyStatus(*change.Delivery.JobCard)
	}
}

// CreateDelivery handles POST /api/delivery. packingListIds are linked to the new note.
func (h *Handler) CreateDelivery(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	if !b.allTruthy("jobCardId", "deliveryMethod", "deliveryAddress") {
		badRequest(c, "Missing required fields: jobCardId, deliveryMethod, deliveryAddress")
		return
	}
	packingListIDs, err := b.stringList("packingListIds")
	if err != nil {
		h.fail(c, err, deliveryErrors)
		return
	}
	delete(b, "deliveryNoteNumber")

	var delivery model.Delivery
	if err := decodeModel(b, &delivery); err != nil {
		h.fail(c, err, deliveryErrors)
		return
	}
	change, err := h.store.CreateDelivery(c.Request.Context(), &delivery, packingListIDs)
	if err != nil {
		h.fail(c, err, deliveryErrors)
		return
	}
	h.notifyDelivered(change)
	respondSuccess(c, change.Delivery)
}

// GetDelivery handles GET /api/delivery/:id.
func (h *Handler) GetDelivery(c *gin.Context) {
	delivery, err := h.store.GetDelivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, deliveryErrors)
		return
	}
	respondSuccess(c, delivery)
}

// UpdateDelivery handles PUT /api/delivery/:id. Moving to delivered completes the job card.
func (h *Handler) UpdateDelivery(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	fields, err := patchFields(b, &model.Delivery{}, "deliveryNoteNumber", "jobCardId")
	if err != nil {
		h.fail(c, err, deliveryErrors)
		return
	}
	change, err := h.store.UpdateDelivery(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.fail(c, err, deliveryErrors)
		return
	}
	h.notifyDelivered(change)
	respondSuccess(c, change.Delivery)
}

// DeleteDelivery handles DELETE /api/delivery/:id.
func (h *Handler) DeleteDelivery(c *gin.Context) {
	if err := h.store.DeleteDelivery(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, deliveryErrors)
		return
	}
	respondDeleted(c, "Delivery deleted successfully")
}
