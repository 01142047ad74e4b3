package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-platform/internal/utils"
)

// ErrorResponse is the standard error payload returned by all endpoints
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// BaseHandler provides shared logging helpers for HTTP handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with its request-scoped context
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	logger := utils.GetContextLogger(c, h.logger)
	args = append(args, "path", c.Request.URL.Path, "method", c.Request.Method)
	logger.Info(msg, args...)
}

// LogError logs a handler-level error with its request-scoped context
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	logger := utils.GetContextLogger(c, h.logger)
	args = append(args, "error", err, "path", c.Request.URL.Path)
	logger.Error(msg, args...)
}
