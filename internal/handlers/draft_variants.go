// internal/handlers/draft_variants.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/catalog-admin/internal/models"
	"github.com/javajoker/catalog-admin/internal/services"
	"github.com/javajoker/catalog-admin/internal/utils"
)

type UpdateVariantRequest struct {
	ColorName *string `json:"color_name" validate:"omitempty,max=100,printable"`
	ColorHex  *string `json:"color_hex" validate:"omitempty,hex_color"`
}

type UpdateSizeTierRequest struct {
	Field string `json:"field" validate:"required,size_field"`
	Value string `json:"value" validate:"max=64"`
}

type MoveImageRequest struct {
	To *int `json:"to" validate:"required,min=0"`
}

// POST /drafts/:id/variants
func (h *DraftHandler) AddVariant(c *gin.Context) {
	h.apply(c, func(item models.Item) models.Item {
		return item.AddVariant()
	})
}

// PATCH /drafts/:id/variants/:v
func (h *DraftHandler) UpdateVariant(c *gin.Context) {
	v, ok := pathIndex(c, "v")
	if !ok {
		return
	}

	var req UpdateVariantRequest
	if !bindAndValidate(c, &req) {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.SetVariantColor(v, req.ColorName, req.ColorHex)
	})
}

// DELETE /drafts/:id/variants/:v
func (h *DraftHandler) RemoveVariant(c *gin.Context) {
	v, ok := pathIndex(c, "v")
	if !ok {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.RemoveVariant(v)
	})
}

// POST /drafts/:id/variants/:v/images
func (h *DraftHandler) UploadVariantImages(c *gin.Context) {
	v, ok := pathIndex(c, "v")
	if !ok {
		return
	}

	files, rejected, ok := h.formImages(c, "images", services.UploadVariantImages)
	if !ok {
		return
	}

	var added int
	h.applyWithMeta(c, func(item models.Item) models.Item {
		item, added = item.AddImages(v, files)
		return item
	}, func() interface{} {
		return gin.H{"added": added, "rejected": rejected}
	})
}

// DELETE /drafts/:id/variants/:v/images/:i
func (h *DraftHandler) RemoveVariantImage(c *gin.Context) {
	v, ok := pathIndex(c, "v")
	if !ok {
		return
	}
	i, ok := pathIndex(c, "i")
	if !ok {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.RemoveImage(v, i)
	})
}

// POST /drafts/:id/variants/:v/images/:i/move
func (h *DraftHandler) MoveVariantImage(c *gin.Context) {
	v, ok := pathIndex(c, "v")
	if !ok {
		return
	}
	i, ok := pathIndex(c, "i")
	if !ok {
		return
	}

	var req MoveImageRequest
	if !bindAndValidate(c, &req) {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.MoveImage(v, i, *req.To)
	})
}

// PATCH /drafts/:id/variants/:v/sizes/:s
func (h *DraftHandler) UpdateSizeTier(c *gin.Context) {
	v, ok := pathIndex(c, "v")
	if !ok {
		return
	}
	s, ok := pathIndex(c, "s")
	if !ok {
		return
	}

	var req UpdateSizeTierRequest
	if !bindAndValidate(c, &req) {
		return
	}

	h.apply(c, func(item models.Item) models.Item {
		return item.SetSizeField(v, s, req.Field, req.Value)
	})
}

// formImages ingests every file under field. A request carrying files that all fail
// validation is rejected outright.
func (h *DraftHandler) formImages(c *gin.Context, field, category string) ([]models.FileUpload, []services.RejectedUpload, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Expected multipart form data", err.Error())
		return nil, nil, false
	}

	headers := form.File[field]
	if len(headers) == 0 {
		utils.BadRequestResponse(c, "No files provided under "+field, nil)
		return nil, nil, false
	}

	files, rejected := h.uploadService.IngestAll(headers, h.uploadService.GetDefaultUploadOptions(category))
	if len(files) == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_UPLOAD", "No acceptable files", rejected)
		return nil, nil, false
	}
	return files, rejected, true
}

// formIcon ingests the single icon file under "icon".
func (h *DraftHandler) formIcon(c *gin.Context) (models.FileUpload, bool) {
	header, err := c.FormFile("icon")
	if err != nil {
		utils.BadRequestResponse(c, "No icon provided", err.Error())
		return models.FileUpload{}, false
	}

	icon, err := h.uploadService.Ingest(header, h.uploadService.GetDefaultUploadOptions(services.UploadIcons))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_UPLOAD", err.Error(), nil)
		return models.FileUpload{}, false
	}
	return icon, true
}
