package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-platform/internal/services"
	"github.com/SAP-F-2025/learning-platform/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	service services.EnrollmentService
}

func NewStudentHandler(service services.EnrollmentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== ENROLLMENT ENDPOINTS =====

// Enroll enrolls the authenticated student in a course
// @Summary Enroll in course
// @Description Enroll the authenticated student in a published course
// @Tags students
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} services.EnrollmentResponse
// @Failure 404 {object} ErrorResponse "Course not found"
// @Failure 409 {object} ErrorResponse "Already enrolled or course full"
// @Failure 422 {object} ErrorResponse "Course not open for enrollment"
// @Router /courses/{id}/enroll [post]
func (h *StudentHandler) Enroll(c *gin.Context) {
	h.LogRequest(c, "Enrolling in course")

	courseID, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid course ID"})
		return
	}

	studentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	enrollment, err := h.service.Enroll(c.Request.Context(), courseID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// GetMyEnrolledCourses returns the authenticated student's enrollments
// @Summary List enrolled courses
// @Description List the authenticated student's enrollments, newest first
// @Tags students
// @Produce json
// @Success 200 {array} models.EnrolledCourse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /students/me/courses [get]
func (h *StudentHandler) GetMyEnrolledCourses(c *gin.Context) {
	h.LogRequest(c, "Listing enrolled courses")

	studentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	courses, err := h.service.GetMyCourses(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// ===== ERROR HANDLING =====

func (h *StudentHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Course not found",
		})
	case errors.Is(err, services.ErrAlreadyEnrolled):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Already enrolled in this course",
		})
	case errors.Is(err, services.ErrCourseFull):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Course is full",
		})
	case errors.Is(err, services.ErrCourseNotOpen):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Course is not open for enrollment",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
