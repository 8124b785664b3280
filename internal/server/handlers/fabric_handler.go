package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fabstash/backend/internal/query"
	"github.com/fabstash/backend/internal/service/export"
	"github.com/fabstash/backend/internal/service/inventory"
)

// FabricHandler serves the inventory query surface and fabric CRUD.
type FabricHandler struct {
	svc    *inventory.Service
	export *export.Service
	logger *zap.Logger
}

// NewFabricHandler constructs the HTTP handler adapter.
func NewFabricHandler(svc *inventory.Service, exportSvc *export.Service, logger *zap.Logger) *FabricHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FabricHandler{svc: svc, export: exportSvc, logger: logger}
}

// parseFilter reads the declarative filter dimensions off the query string.
// Everything here degrades gracefully: absent, malformed or unknown values
// simply add no constraint.
func parseFilter(c *gin.Context) query.FilterRequest {
	var isUsed *bool
	switch c.Query("isUsed") {
	case "true":
		v := true
		isUsed = &v
	case "false":
		v := false
		isUsed = &v
	}

	return query.FilterRequest{
		Keyword:              c.Query("keyword"),
		Favorite:             c.Query("favorite") == "true",
		MaterialsID:          c.Query("materialsId"),
		TagsID:               c.Query("tagsId"),
		BrandID:              c.Query("brandId"),
		PurchaseChannelID:    c.Query("purchaseChannelId"),
		IsUsed:               isUsed,
		LengthRange:          c.Query("lengthRange"),
		RemainingLengthRange: c.Query("remainingLengthRange"),
	}
}

// List returns one filtered, sorted, paginated page of fabrics.
func (h *FabricHandler) List(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, 401001, "unauthorized")
		return
	}

	filter := parseFilter(c)
	plan := query.ResolveSort(c.Query("sortBy"), c.Query("sortOrder"))
	page := query.ParsePage(c.Query("page"), c.Query("limit"))

	result, err := h.svc.List(c.Request.Context(), user.ID, filter, plan, page)
	if err != nil {
		h.logger.Error("failed listing fabrics", zap.Error(err))
		respondError(c, http.StatusInternalServerError, 500004, "failed to list fabrics")
		return
	}

	respondOK(c, "ok", result)
}

// Stats returns summary totals over the same filter dimensions as List.
func (h *FabricHandler) Stats(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, 401001, "unauthorized")
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), user.ID, parseFilter(c))
	if err != nil {
		h.logger.Error("failed computing stats", zap.Error(err))
		respondError(c, http.StatusInternalServerError, 500006, "failed to compute stats")
		return
	}

	respondOK(c, "ok", stats)
}

// Export streams the filtered inventory as an xlsx workbook.
func (h *FabricHandler) Export(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, 401001, "unauthorized")
		return
	}

	plan := query.ResolveSort(c.Query("sortBy"), c.Query("sortOrder"))
	data, err := h.export.Workbook(c.Request.Context(), user.ID, parseFilter(c), plan)
	if err != nil {
		h.logger.Error("failed exporting fabrics", zap.Error(err))
		respondError(c, http.StatusInternalServerError, 500007, "failed to export fabrics")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="fabrics.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Create stores a new fabric.
func (h *FabricHandler) Create(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, 401001, "unauthorized")
		return
	}

	var input inventory.FabricInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, 400001, "invalid request body")
		return
	}

	fabric, err := h.svc.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		h.respondServiceError(c, err, 500001, "failed to create fabric")
		return
	}

	respondOK(c, "created", fabric)
}

// Get returns one fabric.
func (h *FabricHandler) Get(c *gin.Context) {
	user, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	fabric, err := h.svc.Get(c.Request.Context(), user, id)
	if err != nil {
		h.respondServiceError(c, err, 500003, "failed to fetch fabric")
		return
	}

	respondOK(c, "ok", fabric)
}

// Update replaces a fabric's mutable fields.
func (h *FabricHandler) Update(c *gin.Context) {
	user, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	var input inventory.FabricInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, 400001, "invalid request body")
		return
	}

	fabric, err := h.svc.Update(c.Request.Context(), user, id, input)
	if err != nil {
		h.respondServiceError(c, err, 500002, "failed to update fabric")
		return
	}

	respondOK(c, "updated", fabric)
}

// Delete removes a fabric.
func (h *FabricHandler) Delete(c *gin.Context) {
	user, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), user, id); err != nil {
		h.respondServiceError(c, err, 500002, "failed to delete fabric")
		return
	}

	respondOK(c, "deleted", nil)
}

// ToggleFavorite flips the favorite flag and echoes the new value.
func (h *FabricHandler) ToggleFavorite(c *gin.Context) {
	user, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	isFavorite, err := h.svc.ToggleFavorite(c.Request.Context(), user, id)
	if err != nil {
		h.respondServiceError(c, err, 500005, "failed to toggle favorite")
		return
	}

	respondOK(c, "ok", gin.H{"isFavorite": isFavorite})
}

func (h *FabricHandler) ownerAndID(c *gin.Context) (primitive.ObjectID, primitive.ObjectID, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, 401001, "unauthorized")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, 404001, "fabric not found")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}

	return user.ID, id, true
}

func (h *FabricHandler) respondServiceError(c *gin.Context, err error, internalCode int, internalMsg string) {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		respondError(c, http.StatusNotFound, 404001, "fabric not found")
	case errors.Is(err, inventory.ErrValidation):
		respondError(c, http.StatusBadRequest, 400001, err.Error())
	default:
		h.logger.Error(internalMsg, zap.Error(err))
		respondError(c, http.StatusInternalServerError, internalCode, internalMsg)
	}
}
