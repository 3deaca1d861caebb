package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"gilnokie-backend/internal/model"
	"gilnokie-backend/internal/store"
)

var (
	yarnTypeErrors = errText{conflict: "Yarn type code already exists"}
	qualityErrors  = errText{conflict: "Quality code already exists", reference: "Invalid yarn type"}
	machineErrors  = errText{conflict: "Machine number already exists"}
)

// Yarn types

func (h *Handler) ListYarnTypes(c *gin.Context) {
	yarns, err := h.store.ListYarnTypes(c.Request.Context(), store.ActiveFilter{Active: queryBool(c, "active")})
	if err != nil {
		h.fail(c, err, yarnTypeErrors)
		return
	}
	respondData(c, http.StatusOK, yarns)
}

func (h *Handler) CreateYarnType(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	if !b.truthy("code") {
		badRequest(c, "Yarn type code is required")
		return
	}
	yarn := model.YarnType{Active: true}
	if err := decodeModel(b, &yarn); err != nil {
		h.fail(c, err, yarnTypeErrors)
		return
	}
	if err := h.store.CreateYarnType(c.Request.Context(), &yarn); err != nil {
		h.fail(c, err, yarnTypeErrors)
		return
	}
	respondData(c, http.StatusCreated, yarn)
}

func (h *Handler) GetYarnType(c *gin.Context) {
	yarn, err := h.store.GetYarnType(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, yarnTypeErrors)
		return
	}
	respondData(c, http.StatusOK, yarn)
}

func (h *Handler) UpdateYarnType(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	fields, err := patchFields(b, &model.YarnType{})
	if err != nil {
		h.fail(c, err, yarnTypeErrors)
		return
	}
	yarn, err := h.store.UpdateYarnType(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.fail(c, err, yarnTypeErrors)
		return
	}
	respondData(c, http.StatusOK, yarn)
}

func (h *Handler) DeleteYarnType(c *gin.Context) {
	yarn, err := h.store.DeactivateYarnType(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, yarnTypeErrors)
		return
	}
	respondData(c, http.StatusOK, yarn)
}

// Fabric qualities

// fabricContent reads a composition array. ok is false when the key is absent.
func fabricContent(b body) ([]model.FabricContent, bool, error) {
	if _, present := b["fabricContent"]; !present {
		return nil, false, nil
	}
	content := []model.FabricContent{}
	if b.isNull("fabricContent") {
		return content, true, nil
	}
	var rows []struct {
		YarnTypeID string          `json:"yarnTypeId"`
		Percentage json.RawMessage `json:"percentage"`
	}
	if err := json.Unmarshal(b["fabricContent"], &rows); err != nil {
		return nil, true, invalidValue("fabricContent")
	}
	for _, r := range rows {
		if r.YarnTypeID == "" {
			return nil, true, &requestError{msg: "Each fabric content row needs a yarnTypeId"}
		}
		var pct decimal.Decimal
		if err := pct.UnmarshalJSON(r.Percentage); err != nil {
			return nil, true, invalidValue("fabricContent.percentage")
		}
		content = append(content, model.FabricContent{YarnTypeID: r.YarnTypeID, Percentage: pct})
	}
	return content, true, nil
}

func (h *Handler) ListQualities(c *gin.Context) {
	qualities, err := h.store.ListQualities(c.Request.Context(), store.ActiveFilter{Active: queryBool(c, "active")})
	if err != nil {
		h.fail(c, err, qualityErrors)
		return
	}
	respondData(c, http.StatusOK, qualities)
}

func (h *Handler) CreateQuality(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	if !b.truthy("qualityCode") {
		badRequest(c, "Quality code is required")
		return
	}
	quality := model.FabricQuality{Active: true}
	if err := decodeModel(b, &quality); err != nil {
		h.fail(c, err, qualityErrors)
		return
	}
	content, _, err := fabricContent(b)
	if err != nil {
		h.fail(c, err, qualityErrors)
		return
	}
	quality.FabricContent = content

	if err := h.store.CreateQuality(c.Request.Context(), &quality); err != nil {
		h.fail(c, err, qualityErrors)
		return
	}
	respondData(c, http.StatusCreated, quality)
}

func (h *Handler) GetQuality(c *gin.Context) {
	quality, err := h.store.GetQuality(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, qualityErrors)
		return
	}
	respondData(c, http.StatusOK, quality)
}

// UpdateQuality replaces the composition only when the body carries fabricContent.
func (h *Handler) UpdateQuality(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	fields, err := patchFields(b, &model.FabricQuality{})
	if err != nil {
		h.fail(c, err, qualityErrors)
		return
	}
	content, replace, err := fabricContent(b)
	if err != nil {
		h.fail(c, err, qualityErrors)
		return
	}
	if !replace {
		content = nil
	}
	quality, err := h.store.UpdateQuality(c.Request.Context(), c.Param("id"), fields, content)
	if err != nil {
		h.fail(c, err, qualityErrors)
		return
	}
	respondData(c, http.StatusOK, quality)
}

func (h *Handler) DeleteQuality(c *gin.Context) {
	quality, err := h.store.DeactivateQuality(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, qualityErrors)
		return
	}
	respondData(c, http.StatusOK, quality)
}

// Machines

func (h *Handler) ListMachines(c *gin.Context) {
	machines, err := h.store.ListMachines(c.Request.Context(), store.MachineFilter{
		Status:      c.Query("status"),
		MachineType: c.Query("machineType"),
	})
	if err != nil {
		h.fail(c, err, machineErrors)
		return
	}
	respondData(c, http.StatusOK, machines)
}

func (h *Handler) CreateMachine(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	if !b.allTruthy("machineNumber", "machineName", "machineType") {
		badRequest(c, "Machine number, name, and type are required")
		return
	}
	machine := model.MachineSpecification{Status: model.MachineActive}
	if err := decodeModel(b, &machine); err != nil {
		h.fail(c, err, machineErrors)
		return
	}
	if err := h.store.CreateMachine(c.Request.Context(), &machine); err != nil {
		h.fail(c, err, machineErrors)
		return
	}
	respondData(c, http.StatusCreated, machine)
}

func (h *Handler) GetMachine(c *gin.Context) {
	machine, err := h.store.GetMachine(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, machineErrors)
		return
	}
	respondData(c, http.StatusOK, machine)
}

func (h *Handler) UpdateMachine(c *gin.Context) {
	b, ok := bind(c)
	if !ok {
		return
	}
	fields, err := patchFields(b, &model.MachineSpecification{})
	if err != nil {
		h.fail(c, err, machineErrors)
		return
	}
	machine, err := h.store.UpdateMachine(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.fail(c, err, machineErrors)
		return
	}
	respondData(c, http.StatusOK, machine)
}

func (h *Handler) DeleteMachine(c *gin.Context) {
	machine, err := h.store.DeactivateMachine(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, machineErrors)
		return
	}
	respondData(c, http.StatusOK, machine)
}
