// internal/handlers/draft.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-admin/internal/models"
	"github.com/javajoker/catalog-admin/internal/services"
	"github.com/javajoker/catalog-admin/internal/utils"
)

type DraftHandler struct {
	draftService  *services.DraftService
	uploadService *services.UploadService
	catalogClient *services.CatalogClient
}

func NewDraftHandler(draftService *services.DraftService, uploadService *services.UploadService, catalogClient *services.CatalogClient) *DraftHandler {
	return &DraftHandler{
		draftService:  draftService,
		uploadService: uploadService,
		catalogClient: catalogClient,
	}
}

type OpenDraftRequest struct {
	ItemID string `json:"item_id" validate:"omitempty,max=64"`
}

type UpdateScalarsRequest struct {
	Name             *string `json:"name" validate:"omitempty,max=200"`
	ProductID        *string `json:"product_id" validate:"omitempty,max=100"`
	ShortDescription *string `json:"short_description" validate:"omitempty,max=500"`
	LongDescription  *string `json:"long_description" validate:"omitempty,max=10000"`
	Price            *string `json:"price" validate:"omitempty,max=32"`
	DiscountedPrice  *string `json:"discounted_price" validate:"omitempty,max=32"`
	CategoryID       *string `json:"category_id" validate:"omitempty,max=64"`
	SubcategoryID    *string `json:"subcategory_id" validate:"omitempty,max=64"`
	DefaultColor     *string `json:"default_color" validate:"omitempty,max=100"`
	IsActive         *bool   `json:"is_active"`
}

// POST /drafts
func (h *DraftHandler) OpenDraft(c *gin.Context) {
	var req OpenDraftRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid input", err.Error())
			return
		}
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if req.ItemID == "" {
		draft := h.draftService.Open(models.NewItem(h.draftService.Sizes()), services.EncodeModeCreate, "")
		utils.CreatedResponse(c, draft)
		return
	}

	record, err := h.catalogClient.FetchItem(c.Request.Context(), req.ItemID)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := services.HydrateItem(record, h.draftService.Sizes())
	if err != nil {
		respondError(c, err)
		return
	}
	for _, w := range result.Warnings {
		logrus.WithFields(logrus.Fields{
			"item_id": req.ItemID,
			"variant": w.Variant,
			"size":    w.Size,
			"code":    w.Code,
		}).Warn("Hydration dropped backend data")
	}

	draft := h.draftService.Open(result.Item, services.EncodeModeEdit, req.ItemID)
	utils.CreatedResponseWithMeta(c, draft, gin.H{"warnings": result.Warnings})
}

// GET /drafts/:id
func (h *DraftHandler) GetDraft(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}

	draft, err := h.draftService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, draft)
}

// DELETE /drafts/:id
func (h *DraftHandler) DiscardDraft(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}

	if err := h.draftService.Discard(id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Draft discarded"})
}

// PATCH /drafts/:id
func (h *DraftHandler) UpdateScalars(c *gin.Context) {
	var req UpdateScalarsRequest
	if !bindAndValidate(c, &req) {
		return
	}

	fields := []struct {
		field models.ScalarField
		value *string
	}{
		{models.FieldName, req.Name},
		{models.FieldProductID, req.ProductID},
		{models.FieldShortDescription, req.ShortDescription},
		{models.FieldLongDescription, req.LongDescription},
		{models.FieldPrice, req.Price},
		{models.FieldDiscountedPrice, req.DiscountedPrice},
		{models.FieldCategoryID, req.CategoryID},
		{models.FieldSubcategoryID, req.SubcategoryID},
		{models.FieldDefaultColor, req.DefaultColor},
	}

	h.apply(c, func(item models.Item) models.Item {
		for _, f := range fields {
			if f.value != nil {
				item = item.SetScalar(f.field, *f.value)
			}
		}
		if req.IsActive != nil {
			item = item.SetActive(*req.IsActive)
		}
		return item
	})
}

// GET /drafts/:id/payload
func (h *DraftHandler) PreviewPayload(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}

	draft, err := h.draftService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	payload, err := services.EncodePayload(draft.Item, draft.Mode)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, payload.Preview())
}

// POST /drafts/:id/submit
func (h *DraftHandler) SubmitDraft(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}

	draft, err := h.draftService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	payload, err := services.EncodePayload(draft.Item, draft.Mode)
	if err != nil {
		respondError(c, err)
		return
	}

	record, err := h.catalogClient.Submit(c.Request.Context(), payload)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"draft_id": id.String(),
			"mode":     draft.Mode,
		}).WithError(err).Warn("Submit failed")
		respondError(c, err)
		return
	}

	// The session ends with a successful submit. A concurrent discard or sweep may
	// already have removed it.
	if err := h.draftService.Discard(id); err != nil {
		logrus.WithField("draft_id", id.String()).WithError(err).Debug("Draft already gone after submit")
	}

	logrus.WithFields(logrus.Fields{
		"draft_id": id.String(),
		"mode":     draft.Mode,
		"item_id":  payload.ItemID,
		"dropped":  len(payload.Dropped),
	}).Info("Item submitted")

	data := gin.H{
		"mode":             payload.Mode,
		"item":             record,
		"dropped_variants": payload.Dropped,
	}
	if draft.Mode == services.EncodeModeCreate {
		utils.CreatedResponse(c, data)
		return
	}
	utils.SuccessResponse(c, data)
}

// apply runs fn against the draft named in the path and responds with the result.
func (h *DraftHandler) apply(c *gin.Context, fn func(models.Item) models.Item) {
	h.applyWithMeta(c, fn, nil)
}

func (h *DraftHandler) applyWithMeta(c *gin.Context, fn func(models.Item) models.Item, meta func() interface{}) {
	id, ok := draftID(c)
	if !ok {
		return
	}

	draft, err := h.draftService.Apply(id, fn)
	if err != nil {
		respondError(c, err)
		return
	}

	if meta != nil {
		utils.SuccessResponseWithMeta(c, draft, meta())
		return
	}
	utils.SuccessResponse(c, draft)
}

func draftID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid draft ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func pathIndex(c *gin.Context, name string) (int, bool) {
	idx, err := strconv.Atoi(c.Param(name))
	if err != nil || idx < 0 {
		utils.BadRequestResponse(c, "Invalid "+name+" index", nil)
		return 0, false
	}
	return idx, true
}

func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return false
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var transportErr *services.TransportError

	switch {
	case errors.Is(err, services.ErrDraftNotFound):
		utils.NotFoundResponse(c, "Draft")
	case errors.Is(err, services.ErrHydrationNotFound):
		utils.NotFoundResponse(c, "Item")
	case errors.As(err, &validationErr):
		utils.UnprocessableResponse(c, validationErr.Message, nil)
	case errors.As(err, &transportErr):
		details := gin.H{"kind": transportErr.Kind, "status": transportErr.StatusCode}
		if transportErr.Kind == services.TransportValidation {
			utils.BadRequestResponse(c, transportErr.Message, details)
			return
		}
		utils.BadGatewayResponse(c, transportErr.Message, details)
	default:
		c.Error(err)
		utils.InternalErrorResponse(c, "")
	}
}
