package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-platform/internal/events"
	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
	"github.com/SAP-F-2025/learning-platform/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.Publisher
}

func NewEnrollmentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.Publisher) EnrollmentService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &enrollmentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// Enroll registers the student on a published course. The duplicate check is
// the unique (course, student) index, not a read-then-write, so two racing
// enrollments cannot both succeed.
func (s *enrollmentService) Enroll(ctx context.Context, courseID uint, studentID string) (*EnrollmentResponse, error) {
	s.logger.Info("Enrolling student", "course_id", courseID, "student_id", studentID)

	course, err := s.repo.Course().GetByID(ctx, s.db, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	enrolledCount, err := s.repo.Enrollment().CountByCourse(ctx, s.db, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}

	if errs := s.validator.GetBusinessValidator().ValidateEnrollment(course, enrolledCount); len(errs) > 0 {
		if course.MaxStudents > 0 && enrolledCount >= int64(course.MaxStudents) {
			return nil, ErrCourseFull
		}
		return nil, ErrCourseNotOpen
	}

	enrollment := &models.Enrollment{
		CourseID:  courseID,
		StudentID: studentID,
		Status:    models.EnrollmentActive,
	}

	if err := s.repo.Enrollment().Create(ctx, s.db, enrollment); err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("failed to enroll: %w", err)
	}

	event := events.NewEvent(events.EventEnrollmentCreated, studentID, map[string]interface{}{
		"course_id":     courseID,
		"enrollment_id": enrollment.ID,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish enrollment event", "error", err)
	}

	s.logger.Info("Student enrolled", "course_id", courseID, "enrollment_id", enrollment.ID)

	return &EnrollmentResponse{
		Enrollment:  enrollment,
		CourseTitle: course.Title,
	}, nil
}

// GetMyCourses returns the student's enrollments joined with their courses,
// most recently enrolled first.
func (s *enrollmentService) GetMyCourses(ctx context.Context, studentID string) ([]*models.EnrolledCourse, error) {
	enrolled, err := s.repo.Enrollment().ListByStudent(ctx, s.db, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled courses: %w", err)
	}
	return enrolled, nil
}

func (s *enrollmentService) IsEnrolled(ctx context.Context, courseID uint, studentID string) (bool, error) {
	return s.repo.Enrollment().Exists(ctx, s.db, courseID, studentID)
}

// isDuplicateKeyError matches the unique-violation shapes gorm surfaces from
// postgres.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "23505")
}
