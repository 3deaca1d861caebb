package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gilnokie-backend/internal/model"
	"gilnokie-backend/internal/store"
)

var customerErrors = errText{conflict: "Customer name already exists"}

// ListCustomers handles GET /api/customers.
func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.store.ListCustomers(c.Request.Context(), store.CustomerFilter{
		Active: queryBool(c, "active"),
	})
	if err != nil {
		h.fail(c, err, customerErrors)
		return
	}
	respondData(c, http.StatusOK, customers)
}

// CreateCustomer handles POST /api/customers.
func (h *Handler) CreateCustomer(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	if !b.truthy("name") {
		badRequest(c, "Customer name is required")
		return
	}

	customer := model.Customer{Active: true}
	if err := decodeModel(b, &customer); err != nil {
		h.fail(c, err, customerErrors)
		return
	}
	if err := h.store.CreateCustomer(c.Request.Context(), &customer); err != nil {
		h.fail(c, err, customerErrors)
		return
	}
	respondData(c, http.StatusCreated, customer)
}

// GetCustomer handles GET /api/customers/:id.
func (h *Handler) GetCustomer(c *gin.Context) {
	customer, err := h.store.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, customerErrors)
		return
	}
	respondData(c, http.StatusOK, customer)
}

// UpdateCustomer handles PATCH /api/customers/:id.
func (h *Handler) UpdateCustomer(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	fields, err := patchFields(b, &model.Customer{})
	if err != nil {
		h.fail(c, err, customerErrors)
		return
	}
	customer, err := h.store.UpdateCustomer(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.fail(c, err, customerErrors)
		return
	}
	respondData(c, http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /api/customers/:id. Customers are only deactivated.
func (h *Handler) DeleteCustomer(c *gin.Context) {
	customer, err := h.store.DeactivateCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, customerErrors)
		return
	}
	respondData(c, http.StatusOK, customer)
}
