package services

import (
	"context"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
	"github.com/SAP-F-2025/learning-platform/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type CreateUserRequest = validator.UserCreateRequest

type CourseResponse struct {
	*models.Course
	CanEdit    bool `json:"can_edit"`
	CanDelete  bool `json:"can_delete"`
	CanEnroll  bool `json:"can_enroll"`
	IsEnrolled bool `json:"is_enrolled"`
}

type CourseListResult struct {
	Courses []*CourseResponse `json:"courses"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	Size    int               `json:"size"`
}

type EnrollmentResponse struct {
	*models.Enrollment
	CourseTitle string `json:"course_title,omitempty"`
}

// ===== SERVICE INTERFACES =====

type CourseService interface {
	// Core CRUD operations
	Create(ctx context.Context, req *CreateCourseRequest, creatorID string) (*CourseResponse, error)
	GetByID(ctx context.Context, id uint, userID string) (*CourseResponse, error)
	Update(ctx context.Context, id uint, req *UpdateCourseRequest, userID string) (*CourseResponse, error)
	Delete(ctx context.Context, id uint, userID string) error

	// List and search operations
	List(ctx context.Context, filters repositories.CourseFilters, userID string) (*CourseListResult, error)
	GetByTeacher(ctx context.Context, teacherID string, filters repositories.CourseFilters) (*CourseListResult, error)

	// Publication management
	Publish(ctx context.Context, id uint, userID string) error
	Unpublish(ctx context.Context, id uint, userID string) error

	// Permission checks
	CanEdit(ctx context.Context, courseID uint, userID string) (bool, error)
	CanDelete(ctx context.Context, courseID uint, userID string) (bool, error)
}

type EnrollmentService interface {
	Enroll(ctx context.Context, courseID uint, studentID string) (*EnrollmentResponse, error)
	GetMyCourses(ctx context.Context, studentID string) ([]*models.EnrolledCourse, error)
	IsEnrolled(ctx context.Context, courseID uint, studentID string) (bool, error)
}

type UserAdminService interface {
	// Privileged identity management: a single creation path provisions the
	// authentication identity and the profile together.
	CreateUser(ctx context.Context, req *CreateUserRequest, actorID, actorIP string) (*models.User, error)
	DeleteUser(ctx context.Context, userID, actorID, actorIP string) error

	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context, filters repositories.UserFilters) (*models.UserListResponse, error)
}

type AuditService interface {
	Record(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filters repositories.AuditLogFilters) (*models.AuditLogListResponse, error)
}

type DashboardService interface {
	GetStats(ctx context.Context) (*DashboardStatsResponse, error)
	GetRecentActivity(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

type ExportService interface {
	ExportUsers(ctx context.Context, filters repositories.UserFilters) ([]byte, error)
	ExportCourses(ctx context.Context, filters repositories.CourseFilters) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Course() CourseService
	Enrollment() EnrollmentService
	UserAdmin() UserAdminService
	Audit() AuditService
	Dashboard() DashboardService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
