// internal/handlers/draft_blocks.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/catalog-admin/internal/models"
	"github.com/javajoker/catalog-admin/internal/services"
	"github.com/javajoker/catalog-admin/internal/utils"
)

type AddFilterRequest struct {
	Key   string `json:"key" validate:"max=100"`
	Value string `json:"value" validate:"max=200"`
}

type UpdateFilterRequest struct {
	Field string `json:"field" validate:"required,filter_field"`
	Value string `json:"value" validate:"max=200"`
}

type UpdateCareRequest struct {
	Description string `json:"description" validate:"max=2000"`
}

type CareInstructionRequest struct {
	Text string `json:"text" validate:"max=500"`
}

type SetUnitRequest struct {
	Unit string `json:"unit" validate:"required,size_unit"`
}

type AddHeaderRequest struct {
	Key   string `json:"key" validate:"required,max=50"`
	Label string `json:"label" validate:"required,max=100"`
}

type MeasurementInput struct {
	Key   string `json:"key" validate:"required,max=50"`
	Value string `json:"value" validate:"max=50"`
}

type UpdateRowRequest struct {
	Size         *string            `json:"size" validate:"omitempty,max=20"`
	Measurements []MeasurementInput `json:"measurements" validate:"dive"`
}

type UpdatePolicyRequest struct {
	Field string `json:"field" validate:"required,policy_field"`
	Value string `json:"value" validate:"max=5000"`
}

// POST /drafts/:id/filters
func (h *DraftHandler) AddFilter(c *gin.Context) {
	var req AddFilterRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		item = item.AddFilter()
		last := len(item.Filters) - 1
		if req.Key != "" {
			item = item.UpdateFilter(last, "key", req.Key)
		}
		if req.Value != "" {
			item = item.UpdateFilter(last, "value", req.Value)
		}
		return item
	})
}

// PATCH /drafts/:id/filters/:i
func (h *DraftHandler) UpdateFilter(c *gin.Context) {
	i, ok := pathIndex(c, "i")
	if !ok {
		return
	}

	var req UpdateFilterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.UpdateFilter(i, req.Field, req.Value)
	})
}

// DELETE /drafts/:id/filters/:i
func (h *DraftHandler) RemoveFilter(c *gin.Context) {
	i, ok := pathIndex(c, "i")
	if !ok {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.RemoveFilter(i)
	})
}

// PATCH /drafts/:id/care
func (h *DraftHandler) UpdateCare(c *gin.Context) {
	var req UpdateCareRequest
	if !bindAndValidate(c, &req) {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.SetCareDescription(req.Description)
	})
}

// POST /drafts/:id/care/instructions
func (h *DraftHandler) AddCareInstruction(c *gin.Context) {
	var req CareInstructionRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		item = item.AddCareInstruction()
		if req.Text != "" {
			item = item.UpdateCareInstruction(len(item.Care.Instructions)-1, req.Text)
		}
		return item
	})
}

// PATCH /drafts/:id/care/instructions/:i
func (h *DraftHandler) UpdateCareInstruction(c *gin.Context) {
	i, ok := pathIndex(c, "i")
	if !ok {
		return
	}

	var req CareInstructionRequest
	if !bindAndValidate(c, &req) {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.UpdateCareInstruction(i, req.Text)
	})
}

// PUT /drafts/:id/care/instructions/:i/icon
func (h *DraftHandler) SetCareInstructionIcon(c *gin.Context) {
	i, ok := pathIndex(c, "i")
	if !ok {
		return
	}

	icon, ok := h.formIcon(c)
	if !ok {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.SetCareInstructionIcon(i, icon)
	})
}

// DELETE /drafts/:id/care/instructions/:i
func (h *DraftHandler) RemoveCareInstruction(c *gin.Context) {
	i, ok := pathIndex(c, "i")
	if !ok {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.RemoveCareInstruction(i)
	})
}

// PUT /drafts/:id/size-chart/unit
func (h *DraftHandler) SetUnit(c *gin.Context) {
	var req SetUnitRequest
	if !bindAndValidate(c, &req) {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.SetUnit(models.Unit(req.Unit))
	})
}

// POST /drafts/:id/size-chart/headers
func (h *DraftHandler) AddSizeChartHeader(c *gin.Context) {
	var req AddHeaderRequest
	if !bindAndValidate(c, &req) {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.AddSizeChartHeader(req.Key, req.Label)
	})
}

// DELETE /drafts/:id/size-chart/headers/:key
func (h *DraftHandler) RemoveSizeChartHeader(c *gin.Context) {
	key := c.Param("key")
	h.apply(c, func(item models.Item) models.Item {
		return item.RemoveSizeChartHeader(key)
	})
}

// POST /drafts/:id/size-chart/rows
func (h *DraftHandler) AddSizeChartRow(c *gin.Context) {
	h.apply(c, func(item models.Item) models.Item {
		return item.AddSizeChartRow()
	})
}

// PATCH /drafts/:id/size-chart/rows/:r
func (h *DraftHandler) UpdateSizeChartRow(c *gin.Context) {
	r, ok := pathIndex(c, "r")
	if !ok {
		return
	}

	var req UpdateRowRequest
	if !bindAndValidate(c, &req) {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		if req.Size != nil {
			item = item.SetSizeChartRowSize(r, *req.Size)
		}
		for _, m := range req.Measurements {
			item = item.SetMeasurement(r, m.Key, m.Value)
		}
		return item
	})
}

// DELETE /drafts/:id/size-chart/rows/:r
func (h *DraftHandler) RemoveSizeChartRow(c *gin.Context) {
	r, ok := pathIndex(c, "r")
	if !ok {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.RemoveSizeChartRow(r)
	})
}

// POST /drafts/:id/size-chart/images
func (h *DraftHandler) UploadMeasureImages(c *gin.Context) {
	files, rejected, ok := h.formImages(c, "images", services.UploadMeasureImages)
	if !ok {
		return
	}

	var added int
	h.applyWithMeta(c, func(item models.Item) models.Item {
		item, added = item.AddMeasureImages(files)
		return item
	}, func() interface{} {
		return gin.H{"added": added, "rejected": rejected}
	})
}

// DELETE /drafts/:id/size-chart/images/:i
func (h *DraftHandler) RemoveMeasureImage(c *gin.Context) {
	i, ok := pathIndex(c, "i")
	if !ok {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.RemoveMeasureImage(i)
	})
}

// PATCH /drafts/:id/policies/:block
func (h *DraftHandler) UpdatePolicy(c *gin.Context) {
	kind, ok := policyKind(c)
	if !ok {
		return
	}

	var req UpdatePolicyRequest
	if !bindAndValidate(c, &req) {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.SetPolicyField(kind, req.Field, req.Value)
	})
}

// PUT /drafts/:id/policies/:block/icon
func (h *DraftHandler) SetPolicyIcon(c *gin.Context) {
	kind, ok := policyKind(c)
	if !ok {
		return
	}

	icon, ok := h.formIcon(c)
	if !ok {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.SetPolicyIcon(kind, icon)
	})
}

// DELETE /drafts/:id/policies/:block/icon
func (h *DraftHandler) ClearPolicyIcon(c *gin.Context) {
	kind, ok := policyKind(c)
	if !ok {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.ClearPolicyIcon(kind)
	})
}

func policyKind(c *gin.Context) (models.PolicyKind, bool) {
	block := c.Param("block")
	if err := utils.ValidateVar(block, "policy_kind"); err != nil {
		utils.BadRequestResponse(c, "Unknown policy block "+block, nil)
		return "", false
	}
	return models.PolicyKind(block), true
}
