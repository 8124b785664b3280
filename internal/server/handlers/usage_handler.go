package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fabstash/backend/internal/service/usage"
)

// UsageHandler serves fabric consumption records.
type UsageHandler struct {
	svc    *usage.Service
	logger *zap.Logger
}

// NewUsageHandler constructs the usage HTTP handler.
func NewUsageHandler(svc *usage.Service, logger *zap.Logger) *UsageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsageHandler{svc: svc, logger: logger}
}

type createUsageRequest struct {
	FabricID   string  `json:"fabricId" binding:"required"`
	UsedLength float64 `json:"usedLength" binding:"required"`
}

// Create records a consumption event against a fabric.
func (h *UsageHandler) Create(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, 401001, "unauthorized")
		return
	}

	var req createUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, 400001, "invalid request body")
		return
	}

	fabricID, err := primitive.ObjectIDFromHex(req.FabricID)
	if err != nil {
		respondError(c, http.StatusNotFound, 404001, "fabric not found")
		return
	}

	record, err := h.svc.Create(c.Request.Context(), user.ID, fabricID, req.UsedLength)
	switch {
	case errors.Is(err, usage.ErrFabricNotFound):
		respondError(c, http.StatusNotFound, 404001, "fabric not found")
	case errors.Is(err, usage.ErrExceedsRemaining):
		respondError(c, http.StatusBadRequest, 400001, "used length exceeds remaining length")
	case errors.Is(err, usage.ErrInvalidLength):
		respondError(c, http.StatusBadRequest, 400001, "used length must be positive")
	case err != nil:
		h.logger.Error("failed creating usage record", zap.Error(err))
		respondError(c, http.StatusInternalServerError, 500001, "failed to create usage record")
	default:
		respondOK(c, "created", record)
	}
}

// List returns the owner's usage records.
func (h *UsageHandler) List(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, 401001, "unauthorized")
		return
	}

	records, err := h.svc.List(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed listing usage records", zap.Error(err))
		respondError(c, http.StatusInternalServerError, 500002, "failed to list usage records")
		return
	}

	respondOK(c, "ok", records)
}
