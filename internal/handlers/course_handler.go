package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
	"github.com/SAP-F-2025/learning-platform/internal/services"
	"github.com/SAP-F-2025/learning-platform/internal/utils"
	"github.com/SAP-F-2025/learning-platform/internal/validator"
)

type CourseHandler struct {
	BaseHandler
	service   services.CourseService
	validator *validator.Validator
}

func NewCourseHandler(service services.CourseService, v *validator.Validator, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		validator:   v,
	}
}

// ===== COURSE CRUD ENDPOINTS =====

// CreateCourse creates a new course
// @Summary Create course
// @Description Create a new course owned by the authenticated teacher
// @Tags courses
// @Accept json
// @Produce json
// @Param request body services.CreateCourseRequest true "Course data"
// @Success 201 {object} services.CourseResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 409 {object} ErrorResponse "Course code already in use"
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	h.LogRequest(c, "Creating course")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	course, err := h.service.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetCourse returns a single course by ID
// @Summary Get course
// @Description Get a course by ID; unpublished courses are visible to staff only
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} services.CourseResponse
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	h.LogRequest(c, "Getting course")

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid course ID"})
		return
	}

	userID, _ := GetUserIDFromContext(c)

	course, err := h.service.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// ListCourses returns a filtered page of courses
// @Summary List courses
// @Description List published courses; staff also see their unpublished ones
// @Tags courses
// @Produce json
// @Param category query string false "Filter by category"
// @Param difficulty query string false "Filter by difficulty (beginner, intermediate, advanced)"
// @Param q query string false "Search in title and description"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param sort_by query string false "Sort field: created_at, title, start_date"
// @Param sort_order query string false "Sort order: asc or desc"
// @Success 200 {object} services.CourseListResult
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	h.LogRequest(c, "Listing courses")

	userID, _ := GetUserIDFromContext(c)
	filters := parseCourseFilters(c)

	result, err := h.service.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMyCourses returns courses taught by the authenticated teacher
// @Summary List my courses
// @Description List courses owned by the authenticated teacher
// @Tags courses
// @Produce json
// @Success 200 {object} services.CourseListResult
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /courses/mine [get]
func (h *CourseHandler) GetMyCourses(c *gin.Context) {
	h.LogRequest(c, "Listing own courses")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	filters := parseCourseFilters(c)

	result, err := h.service.GetByTeacher(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateCourse updates an existing course
// @Summary Update course
// @Description Update a course; only the owning teacher or an admin may update
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body services.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} services.CourseResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	h.LogRequest(c, "Updating course")

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid course ID"})
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	course, err := h.service.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse deletes a course
// @Summary Delete course
// @Description Delete a course; deleting an absent course succeeds
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 204 "Deleted"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	h.LogRequest(c, "Deleting course")

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid course ID"})
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== PUBLICATION ENDPOINTS =====

// PublishCourse makes a course visible in the catalog
// @Summary Publish course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id}/publish [post]
func (h *CourseHandler) PublishCourse(c *gin.Context) {
	h.LogRequest(c, "Publishing course")

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid course ID"})
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	if err := h.service.Publish(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "published"})
}

// UnpublishCourse hides a course from the catalog
// @Summary Unpublish course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id}/unpublish [post]
func (h *CourseHandler) UnpublishCourse(c *gin.Context) {
	h.LogRequest(c, "Unpublishing course")

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid course ID"})
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	if err := h.service.Unpublish(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unpublished"})
}

// ===== HELPERS =====

func parseUintParam(c *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

func parseCourseFilters(c *gin.Context) repositories.CourseFilters {
	filters := repositories.CourseFilters{
		Query:     c.Query("q"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if category := c.Query("category"); category != "" {
		filters.Category = &category
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		level := models.DifficultyLevel(difficulty)
		filters.Difficulty = &level
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

	return filters
}

// ===== ERROR HANDLING =====

func (h *CourseHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Unauthorized",
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
		})
	case errors.Is(err, services.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Course not found",
		})
	case errors.Is(err, services.ErrCourseCodeTaken):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Course code already in use",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
