package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fabstash/backend/internal/service/catalog"
)

// CatalogHandler serves one catalog kind. The same handler shape backs
// brands, materials, tags and purchase channels.
type CatalogHandler struct {
	svc    *catalog.Service
	kind   string
	logger *zap.Logger
}

// NewCatalogHandler constructs a catalog HTTP handler for the given kind.
func NewCatalogHandler(svc *catalog.Service, kind string, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{svc: svc, kind: kind, logger: logger}
}

type createCatalogRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create stores a new named item.
func (h *CatalogHandler) Create(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, 401001, "unauthorized")
		return
	}

	var req createCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, 400001, "invalid request body")
		return
	}

	item, err := h.svc.Create(c.Request.Context(), user.ID, req.Name)
	switch {
	case errors.Is(err, catalog.ErrDuplicateName):
		respondError(c, http.StatusBadRequest, 400001, "name already exists")
	case errors.Is(err, catalog.ErrEmptyName):
		respondError(c, http.StatusBadRequest, 400001, "name must not be empty")
	case err != nil:
		h.logger.Error("failed creating catalog item", zap.String("kind", h.kind), zap.Error(err))
		respondError(c, http.StatusInternalServerError, 500001, "failed to create "+h.kind)
	default:
		respondOK(c, "created", item)
	}
}

// List returns the owner's items, optionally filtered by keyword.
func (h *CatalogHandler) List(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, 401001, "unauthorized")
		return
	}

	items, err := h.svc.List(c.Request.Context(), user.ID, c.Query("keyword"))
	if err != nil {
		h.logger.Error("failed listing catalog items", zap.String("kind", h.kind), zap.Error(err))
		respondError(c, http.StatusInternalServerError, 500003, "failed to list "+h.kind)
		return
	}

	respondOK(c, "ok", items)
}

// Delete removes an item.
func (h *CatalogHandler) Delete(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, 401001, "unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, 404001, h.kind+" not found")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), user.ID, id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(c, http.StatusNotFound, 404001, h.kind+" not found")
			return
		}
		h.logger.Error("failed deleting catalog item", zap.String("kind", h.kind), zap.Error(err))
		respondError(c, http.StatusInternalServerError, 500002, "failed to delete "+h.kind)
		return
	}

	respondOK(c, "deleted", nil)
}
