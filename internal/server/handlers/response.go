package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fabstash/backend/internal/domain/models"
)

// ContextUserKey is the gin context key the auth middleware stores the
// authenticated user under.
const ContextUserKey = "currentUser"

// Response is the uniform API envelope.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(200, Response{Code: 200, Message: message, Data: data})
}

func respondError(c *gin.Context, status, code int, message string) {
	c.JSON(status, Response{Code: code, Message: message})
}

// CurrentUser returns the authenticated user placed on the context by the
// auth middleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}
