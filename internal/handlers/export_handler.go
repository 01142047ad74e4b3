package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
	"github.com/SAP-F-2025/learning-platform/internal/services"
	"github.com/SAP-F-2025/learning-platform/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	BaseHandler
	service services.ExportService
}

func NewExportHandler(service services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== EXPORT ENDPOINTS =====

// ExportUsers streams an xlsx export of user accounts
// @Summary Export users
// @Description Download all user accounts as an xlsx spreadsheet
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param role query string false "Filter by role (student, teacher, admin)"
// @Success 200 {file} binary
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/export/users [get]
func (h *ExportHandler) ExportUsers(c *gin.Context) {
	h.LogRequest(c, "Exporting users")

	filters := repositories.UserFilters{
		Query: c.Query("q"),
	}
	if role := c.Query("role"); role != "" {
		userRole := models.UserRole(role)
		filters.Role = &userRole
	}

	data, err := h.service.ExportUsers(c.Request.Context(), filters)
	if err != nil {
		h.LogError(c, err, "User export failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to export users",
		})
		return
	}

	filename := fmt.Sprintf("users-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ExportCourses streams an xlsx export of the course catalog
// @Summary Export courses
// @Description Download the course catalog as an xlsx spreadsheet
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param category query string false "Filter by category"
// @Success 200 {file} binary
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/export/courses [get]
func (h *ExportHandler) ExportCourses(c *gin.Context) {
	h.LogRequest(c, "Exporting courses")

	filters := repositories.CourseFilters{
		Query: c.Query("q"),
	}
	if category := c.Query("category"); category != "" {
		filters.Category = &category
	}

	data, err := h.service.ExportCourses(c.Request.Context(), filters)
	if err != nil {
		h.LogError(c, err, "Course export failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to export courses",
		})
		return
	}

	filename := fmt.Sprintf("courses-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
