package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-platform/internal/repositories"
	"github.com/SAP-F-2025/learning-platform/internal/services"
	"github.com/SAP-F-2025/learning-platform/internal/utils"
)

type AuditHandler struct {
	BaseHandler
	service services.AuditService
}

func NewAuditHandler(service services.AuditService, logger utils.Logger) *AuditHandler {
	return &AuditHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListAuditLogs returns a filtered page of admin audit entries
// @Summary List audit logs
// @Description List privileged admin actions, most recent first
// @Tags admin
// @Produce json
// @Param action query string false "Filter by action"
// @Param target_type query string false "Filter by target type (user, course)"
// @Param actor_id query string false "Filter by acting admin"
// @Param date_from query string false "Entries on or after this date (RFC 3339)"
// @Param date_to query string false "Entries on or before this date (RFC 3339)"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} models.AuditLogListResponse
// @Failure 400 {object} ErrorResponse "Invalid date filter"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	h.LogRequest(c, "Listing audit logs")

	filters := repositories.AuditLogFilters{
		Query: c.Query("q"),
	}
	if action := c.Query("action"); action != "" {
		filters.Action = &action
	}
	if targetType := c.Query("target_type"); targetType != "" {
		filters.TargetType = &targetType
	}
	if actorID := c.Query("actor_id"); actorID != "" {
		filters.ActorID = &actorID
	}

	if dateFrom := c.Query("date_from"); dateFrom != "" {
		parsed, err := time.Parse(time.RFC3339, dateFrom)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid date_from parameter",
				Details: "Expected RFC 3339 timestamp",
			})
			return
		}
		filters.DateFrom = &parsed
	}
	if dateTo := c.Query("date_to"); dateTo != "" {
		parsed, err := time.Parse(time.RFC3339, dateTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid date_to parameter",
				Details: "Expected RFC 3339 timestamp",
			})
			return
		}
		filters.DateTo = &parsed
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	filters.Limit = size
	filters.Offset = (page - 1) * size

	result, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AuditHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
