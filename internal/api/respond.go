package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gilnokie-backend/internal/store"
)

// errText holds the messages a resource uses for constraint violations.
type errText struct {
	conflict  string
	reference string
}

// requestError is a malformed or incomplete request body.
type requestError struct {
	msg string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// respondData writes the {data} envelope used by the master-data and job routes.
func respondData(c *gin.Context, status int, v any) {
	c.JSON(status, gin.H{"data": v})
}

// respondSuccess writes the {success,data} envelope used by stock, shipping and analytics.
func respondSuccess(c *gin.Context, v any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": v})
}

func respondDeleted(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// fail maps store and request errors onto status codes. Unexpected errors are logged and
// reported as a generic 500.
func (h *Handler) fail(c *gin.Context, err error, text errText) {
	var (
		re *requestError
		ve *store.ValidationError
		nf *store.NotFoundError
	)
	switch {
	case errors.As(err, &re):
		badRequest(c, re.msg)
	case errors.As(err, &ve):
		badRequest(c, ve.Message)
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.Is(err, store.ErrConflict):
		msg := text.conflict
		if msg == "" {
			msg = "Record already exists"
		}
		c.JSON(http.StatusConflict, gin.H{"error": msg})
	case errors.Is(err, store.ErrInvalidReference):
		msg := text.reference
		if msg == "" {
			msg = "Invalid reference"
		}
		badRequest(c, msg)
	default:
		h.log.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// queryBool reads a tri-state boolean filter: absent is nil, "true" is true, anything
// else is false.
func queryBool(c *gin.Context, key string) *bool {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	v := raw == "true"
	return &v
}
