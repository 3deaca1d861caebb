package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"gilnokie-backend/internal/pdf"
)

const pdfContentType = "application/pdf"

// sendPDF writes a rendered document inline, or a 500 when rendering failed.
func (h *Handler) sendPDF(c *gin.Context, filename string, doc []byte, err error) {
	if err != nil {
		h.log.Error("failed to render pdf", "file", filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, pdfContentType, doc)
}

// JobCardPDF handles GET /api/pdf/job-card/:id.
func (h *Handler) JobCardPDF(c *gin.Context) {
	detail, err := h.store.GetJobCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, errText{})
		return
	}
	doc, err := pdf.JobCard(&detail.CustomerOrder, h.now())
	h.sendPDF(c, "job-card-"+detail.JobCardNumber+".pdf", doc, err)
}

// PackingListPDF handles GET /api/pdf/packing-list/:id.
func (h *Handler) PackingListPDF(c *gin.Context) {
	pl, err := h.store.GetPackingList(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, errText{})
		return
	}
	doc, err := pdf.PackingList(pl, h.now())
	h.sendPDF(c, "packing-list-"+pl.PackingListNumber+".pdf", doc, err)
}

// DeliveryNotePDF handles GET /api/pdf/delivery-note/:id.
func (h *Handler) DeliveryNotePDF(c *gin.Context) {
	dl, err := h.store.GetDelivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, errText{})
		return
	}
	doc, err := pdf.DeliveryNote(dl, h.now())
	h.sendPDF(c, "delivery-note-"+dl.DeliveryNoteNumber+".pdf", doc, err)
}
