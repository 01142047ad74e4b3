package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-platform/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Category   *string                 `json:"category"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	TeacherID  *string                 `json:"teacher_id"`
	Published  *bool                   `json:"published"`
	Query      string                  `json:"query"`
	Limit      int                     `json:"limit"`
	Offset     int                     `json:"offset"`
	SortBy     string                  `json:"sort_by"`    // "created_at", "title", "start_date"
	SortOrder  string                  `json:"sort_order"` // "asc", "desc"
}

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type AuditLogFilters struct {
	Action     *string    `json:"action"`
	TargetType *string    `json:"target_type"`
	ActorID    *string    `json:"actor_id"`
	Query      string     `json:"query"`
	DateFrom   *time.Time `json:"date_from"`
	DateTo     *time.Time `json:"date_to"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}

// ===== COURSE DOMAIN =====

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error

	// Delete is a no-op for an absent id; callers cannot distinguish a
	// deleted row from a missing one, matching the backend contract.
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*models.Course, int64, error)
	ExistsByCode(ctx context.Context, tx *gorm.DB, code string, excludeID *uint) (bool, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error

	// ListByStudent returns enrollment rows joined with their course,
	// ordered by enrollment time descending.
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.EnrolledCourse, error)

	CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error)
	Exists(ctx context.Context, tx *gorm.DB, courseID uint, studentID string) (bool, error)
}

// ===== USER DOMAIN (identity provider backed) =====

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	HasRole(ctx context.Context, id string, role models.UserRole) (bool, error)

	// Privileged identity management. Create provisions the authentication
	// identity and the profile in a single path; Delete removes both.
	Create(ctx context.Context, user *models.User, password string) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// ===== AUDIT DOMAIN =====

type AuditLogRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *models.AuditLog) error

	// List is ordered by recency, most recent first, with a bounded page size.
	List(ctx context.Context, tx *gorm.DB, filters AuditLogFilters) ([]*models.AuditLog, int64, error)
}

// ===== DASHBOARD DOMAIN =====

type DashboardRepository interface {
	GetTotalCourses(ctx context.Context, tx *gorm.DB) (int64, error)
	GetTotalUsers(ctx context.Context, tx *gorm.DB) (int64, error)
	GetTotalEnrollments(ctx context.Context, tx *gorm.DB) (int64, error)
	GetTotalAssignments(ctx context.Context, tx *gorm.DB) (int64, error)
	GetRecentAuditEntries(ctx context.Context, tx *gorm.DB, limit int) ([]*models.AuditLog, error)
}
