package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gilnokie-backend/internal/model"
	"gilnokie-backend/internal/store"
)

var jobCardErrors = errText{
	conflict:  "Job card number already exists",
	reference: "Invalid customer or fabric quality",
}

// jobCardReadOnly are maintained by the server, never by clients.
var jobCardReadOnly = []string{"jobCardNumber"}

// ListJobCards handles GET /api/job-cards.
func (h *Handler) ListJobCards(c *gin.Context) {
	cards, err := h.store.ListJobCards(c.Request.Context(), store.JobCardFilter{
		Status:     c.Query("status"),
		CustomerID: c.Query("customerId"),
	})
	if err != nil {
		h.fail(c, err, jobCardErrors)
		return
	}
	respondData(c, http.StatusOK, cards)
}

// JobCardStatuses handles GET /api/job-cards/statuses. With from and to it also reports
// whether that transition should be confirmed by the user first.
func (h *Handler) JobCardStatuses(c *gin.Context) {
	resp := gin.H{"statuses": model.JobStatuses}
	from, to := c.Query("from"), c.Query("to")
	if from != "" && to != "" {
		resp["requiresConfirmation"] = model.NeedsConfirmation(from, to)
	}
	respondData(c, http.StatusOK, resp)
}

// CreateJobCard handles POST /api/job-cards.
func (h *Handler) CreateJobCard(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	if !b.allTruthy("customerId", "qualityId", "quantityRequired") {
		badRequest(c, "Missing required fields: customerId, qualityId, quantityRequired")
		return
	}

	var card model.CustomerOrder
	for _, k := range jobCardReadOnly {
		delete(b, k)
	}
	if err := decodeModel(b, &card); err != nil {
		h.fail(c, err, jobCardErrors)
		return
	}
	if card.OrderDate.IsZero() {
		card.OrderDate = h.now().UTC()
	}
	if err := h.store.CreateJobCard(c.Request.Context(), &card); err != nil {
		h.fail(c, err, jobCardErrors)
		return
	}
	respondData(c, http.StatusCreated, card)
}

// GetJobCard handles GET /api/job-cards/:id.
func (h *Handler) GetJobCard(c *gin.Context) {
	card, err := h.store.GetJobCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, jobCardErrors)
		return
	}
	respondData(c, http.StatusOK, card)
}

// JobCardProgress handles GET /api/job-cards/:id/progress.
func (h *Handler) JobCardProgress(c *gin.Context) {
	progress, err := h.store.JobCardProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, jobCardErrors)
		return
	}
	respondData(c, http.StatusOK, progress)
}

// UpdateJobCard handles PATCH /api/job-cards/:id. A status change is pushed to subscribers.
func (h *Handler) UpdateJobCard(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	if !b.isNull("status") {
		if _, known := model.LookupStatus(b.str("status")); !known {
			badRequest(c, "Invalid status")
			return
		}
	}
	fields, err := patchFields(b, &model.CustomerOrder{}, jobCardReadOnly...)
	if err != nil {
		h.fail(c, err, jobCardErrors)
		return
	}

	change, err := h.store.UpdateJobCard(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.fail(c, err, jobCardErrors)
		return
	}
	if change.StatusChanged() {
		h.notifyStatus(change.JobCard)
	}
	respondData(c, http.StatusOK, change.JobCard)
}

// DeleteJobCard handles DELETE /api/job-cards/:id by cancelling the job card.
func (h *Handler) DeleteJobCard(c *gin.Context) {
	change, err := h.store.CancelJobCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, jobCardErrors)
		return
	}
	if change.StatusChanged() {
		h.notifyStatus(change.JobCard)
	}
	respondData(c, http.StatusOK, change.JobCard)
}
