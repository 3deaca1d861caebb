package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gilnokie-backend/internal/model"
	"gilnokie-backend/internal/store"
)

var employeeErrors = errText{conflict: "Employee code already exists"}

func (h *Handler) ListEmployees(c *gin.Context) {
	employees, err := h.store.ListEmployees(c.Request.Context(), store.EmployeeFilter{
		Active: queryBool(c, "active"),
		Role:   c.Query("role"),
	})
	if err != nil {
		h.fail(c, err, employeeErrors)
		return
	}
	respondData(c, http.StatusOK, employees)
}

func (h *Handler) CreateEmployee(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	if !b.allTruthy("employeeCode", "firstName", "lastName") {
		badRequest(c, "Employee code, first name, and last name are required")
		return
	}

	employee := model.Employee{Active: true}
	if err := decodeModel(b, &employee); err != nil {
		h.fail(c, err, employeeErrors)
		return
	}
	if err := h.store.CreateEmployee(c.Request.Context(), &employee); err != nil {
		h.fail(c, err, employeeErrors)
		return
	}
	respondData(c, http.StatusCreated, employee)
}

// GetEmployee also answers for deactivated employees so their history stays reachable.
func (h *Handler) GetEmployee(c *gin.Context) {
	employee, err := h.store.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, employeeErrors)
		return
	}
	respondData(c, http.StatusOK, employee)
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	fields, err := patchFields(b, &model.Employee{})
	if err != nil {
		h.fail(c, err, employeeErrors)
		return
	}
	employee, err := h.store.UpdateEmployee(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.fail(c, err, employeeErrors)
		return
	}
	respondData(c, http.StatusOK, employee)
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	employee, err := h.store.DeactivateEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, employeeErrors)
		return
	}
	respondData(c, http.StatusOK, employee)
}
