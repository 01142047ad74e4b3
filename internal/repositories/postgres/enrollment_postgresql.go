package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

func (r *EnrollmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts an enrollment row. Duplicate (course, student) pairs are
// rejected by the unique index; the database error is surfaced as-is, no
// client-side deduplication.
func (r *EnrollmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

// ListByStudent returns the student's enrollments joined with their courses,
// most recently enrolled first.
func (r *EnrollmentPostgreSQL) ListByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.EnrolledCourse, error) {
	db := r.getDB(tx)

	var enrollments []models.Enrollment
	if err := db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	result := make([]*models.EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		ec := &models.EnrolledCourse{Enrollment: e}
		if e.Course != nil {
			ec.Course = *e.Course
		}
		ec.Enrollment.Course = nil
		result = append(result, ec)
	}

	return result, nil
}

// CountByCourse counts enrollments for one course
func (r *EnrollmentPostgreSQL) CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error) {
	db := r.getDB(tx)

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	return count, nil
}

// Exists reports whether the student already holds an enrollment for the course
func (r *EnrollmentPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, courseID uint, studentID string) (bool, error) {
	db := r.getDB(tx)

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}

	return count > 0, nil
}
