package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-platform/internal/events"
	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
	"github.com/SAP-F-2025/learning-platform/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.Publisher
}

func NewCourseService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.Publisher) CourseService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &courseService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, creatorID string) (*CourseResponse, error) {
	s.logger.Info("Creating course", "creator_id", creatorID, "title", req.Title)

	// Validate request with business rules
	if errs := s.validator.GetBusinessValidator().ValidateCourseCreate(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	// Only teachers and admins may create courses
	canCreate, err := s.canManageCourses(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("permission check failed: %w", err)
	}
	if !canCreate {
		return nil, NewPermissionError(creatorID, "course", "create", "insufficient role permissions")
	}

	// Course code must be unique across live courses
	if req.CourseCode != nil {
		taken, err := s.repo.Course().ExistsByCode(ctx, s.db, *req.CourseCode, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to check course code: %w", err)
		}
		if taken {
			return nil, ErrCourseCodeTaken
		}
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		MaxStudents: 0,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CourseCode:  req.CourseCode,
		IsPublished: req.IsPublished,
		TeacherID:   creatorID,
	}
	if req.Difficulty != nil {
		course.Difficulty = *req.Difficulty
	} else {
		course.Difficulty = models.DifficultyBeginner
	}
	if req.MaxStudents != nil {
		course.MaxStudents = *req.MaxStudents
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Course().Create(ctx, tx, course); err != nil {
			return fmt.Errorf("failed to create course: %w", err)
		}
		return s.recordCourseAudit(ctx, tx, models.ActionCreateCourse, course, creatorID)
	})
	if err != nil {
		return nil, err
	}

	s.publishCourseEvent(ctx, events.EventCourseCreated, course, creatorID)
	s.logger.Info("Course created successfully", "course_id", course.ID)

	return s.buildCourseResponse(ctx, course, creatorID), nil
}

func (s *courseService) GetByID(ctx context.Context, id uint, userID string) (*CourseResponse, error) {
	course, err := s.repo.Course().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	// Unpublished courses are visible to their teacher and admins only
	if !course.IsPublished && userID != course.TeacherID {
		isAdmin, err := s.repo.User().HasRole(ctx, userID, models.RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("permission check failed: %w", err)
		}
		if !isAdmin {
			return nil, ErrCourseNotFound
		}
	}

	if count, err := s.repo.Enrollment().CountByCourse(ctx, s.db, id); err == nil {
		course.EnrolledCount = int(count)
	} else {
		s.logger.Warn("Failed to count enrollments", "course_id", id, "error", err)
	}

	return s.buildCourseResponse(ctx, course, userID), nil
}

func (s *courseService) Update(ctx context.Context, id uint, req *UpdateCourseRequest, userID string) (*CourseResponse, error) {
	s.logger.Info("Updating course", "course_id", id, "user_id", userID)

	course, err := s.repo.Course().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if count, err := s.repo.Enrollment().CountByCourse(ctx, s.db, id); err == nil {
		course.EnrolledCount = int(count)
	}

	// Validate request with business rules
	if errs := s.validator.GetBusinessValidator().ValidateCourseUpdate(req, course); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	canEdit, err := s.CanEdit(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !canEdit {
		return nil, NewPermissionError(userID, "course", "update", "not owner or insufficient permissions")
	}

	// Changing the code re-checks uniqueness against every other course
	if req.CourseCode != nil {
		taken, err := s.repo.Course().ExistsByCode(ctx, s.db, *req.CourseCode, &id)
		if err != nil {
			return nil, fmt.Errorf("failed to check course code: %w", err)
		}
		if taken {
			return nil, ErrCourseCodeTaken
		}
	}

	s.applyCourseUpdates(course, req)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Course().Update(ctx, tx, course); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("failed to update course: %w", err)
		}
		return s.recordCourseAudit(ctx, tx, models.ActionUpdateCourse, course, userID)
	})
	if err != nil {
		return nil, err
	}

	s.publishCourseEvent(ctx, events.EventCourseUpdated, course, userID)
	s.logger.Info("Course updated successfully", "course_id", id)

	return s.buildCourseResponse(ctx, course, userID), nil
}

// Delete soft-deletes a course. An absent id is not an error: the caller
// observes the same success either way.
func (s *courseService) Delete(ctx context.Context, id uint, userID string) error {
	s.logger.Info("Deleting course", "course_id", id, "user_id", userID)

	canDelete, err := s.CanDelete(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			s.logger.Info("Course already absent, nothing to delete", "course_id", id)
			return nil
		}
		return err
	}
	if !canDelete {
		return NewPermissionError(userID, "course", "delete", "not owner or insufficient permissions")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Course().Delete(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete course: %w", err)
		}
		return s.recordCourseAudit(ctx, tx, models.ActionDeleteCourse, &models.Course{ID: id}, userID)
	})
	if err != nil {
		return err
	}

	s.publishCourseEvent(ctx, events.EventCourseDeleted, &models.Course{ID: id}, userID)
	s.logger.Info("Course deleted successfully", "course_id", id)
	return nil
}

// ===== LIST OPERATIONS =====

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters, userID string) (*CourseListResult, error) {
	// Non-staff callers only see published courses
	if filters.Published == nil {
		canManage, err := s.canManageCourses(ctx, userID)
		if err != nil || !canManage {
			published := true
			filters.Published = &published
		}
	}

	courses, total, err := s.repo.Course().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return s.buildListResult(ctx, courses, total, filters, userID), nil
}

func (s *courseService) GetByTeacher(ctx context.Context, teacherID string, filters repositories.CourseFilters) (*CourseListResult, error) {
	filters.TeacherID = &teacherID

	courses, total, err := s.repo.Course().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list teacher courses: %w", err)
	}

	return s.buildListResult(ctx, courses, total, filters, teacherID), nil
}

// ===== PUBLICATION MANAGEMENT =====

func (s *courseService) Publish(ctx context.Context, id uint, userID string) error {
	return s.setPublished(ctx, id, userID, true)
}

func (s *courseService) Unpublish(ctx context.Context, id uint, userID string) error {
	return s.setPublished(ctx, id, userID, false)
}

func (s *courseService) setPublished(ctx context.Context, id uint, userID string, published bool) error {
	s.logger.Info("Changing course publication", "course_id", id, "published", published)

	canEdit, err := s.CanEdit(ctx, id, userID)
	if err != nil {
		return err
	}
	if !canEdit {
		return NewPermissionError(userID, "course", "publish", "not owner or insufficient permissions")
	}

	course, err := s.repo.Course().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}

	if course.IsPublished == published {
		return nil
	}
	course.IsPublished = published

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Course().Update(ctx, tx, course); err != nil {
			return fmt.Errorf("failed to update publication: %w", err)
		}
		return s.recordCourseAudit(ctx, tx, models.ActionUpdateCourse, course, userID)
	})
	if err != nil {
		return err
	}

	s.publishCourseEvent(ctx, events.EventCourseUpdated, course, userID)
	return nil
}

// ===== PERMISSION CHECKS =====

func (s *courseService) CanEdit(ctx context.Context, courseID uint, userID string) (bool, error) {
	course, err := s.repo.Course().GetByID(ctx, s.db, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, ErrCourseNotFound
		}
		return false, fmt.Errorf("failed to get course: %w", err)
	}

	if course.TeacherID == userID {
		return true, nil
	}
	return s.repo.User().HasRole(ctx, userID, models.RoleAdmin)
}

func (s *courseService) CanDelete(ctx context.Context, courseID uint, userID string) (bool, error) {
	return s.CanEdit(ctx, courseID, userID)
}

// ===== HELPERS =====

func (s *courseService) canManageCourses(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	isTeacher, err := s.repo.User().HasRole(ctx, userID, models.RoleTeacher)
	if err != nil {
		return false, err
	}
	if isTeacher {
		return true, nil
	}
	return s.repo.User().HasRole(ctx, userID, models.RoleAdmin)
}

func (s *courseService) applyCourseUpdates(course *models.Course, req *UpdateCourseRequest) {
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Difficulty != nil {
		course.Difficulty = *req.Difficulty
	}
	if req.MaxStudents != nil {
		course.MaxStudents = *req.MaxStudents
	}
	if req.StartDate != nil {
		course.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		course.EndDate = req.EndDate
	}
	if req.CourseCode != nil {
		course.CourseCode = req.CourseCode
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}
}

func (s *courseService) buildCourseResponse(ctx context.Context, course *models.Course, userID string) *CourseResponse {
	resp := &CourseResponse{Course: course}

	if userID == "" {
		resp.CanEnroll = course.IsPublished
		return resp
	}

	if course.TeacherID == userID {
		resp.CanEdit = true
		resp.CanDelete = true
	} else if isAdmin, err := s.repo.User().HasRole(ctx, userID, models.RoleAdmin); err == nil && isAdmin {
		resp.CanEdit = true
		resp.CanDelete = true
	}

	if enrolled, err := s.repo.Enrollment().Exists(ctx, s.db, course.ID, userID); err == nil {
		resp.IsEnrolled = enrolled
	}
	resp.CanEnroll = course.IsPublished && !resp.IsEnrolled && !resp.CanEdit

	return resp
}

func (s *courseService) buildListResult(ctx context.Context, courses []*models.Course, total int64, filters repositories.CourseFilters, userID string) *CourseListResult {
	responses := make([]*CourseResponse, len(courses))
	for i, course := range courses {
		responses[i] = s.buildCourseResponse(ctx, course, userID)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &CourseListResult{
		Courses: responses,
		Total:   total,
		Page:    page,
		Size:    len(responses),
	}
}

func (s *courseService) recordCourseAudit(ctx context.Context, tx *gorm.DB, action string, course *models.Course, actorID string) error {
	details, _ := json.Marshal(map[string]interface{}{
		"title": course.Title,
		"code":  course.CourseCode,
	})

	entry := &models.AuditLog{
		ActorID:       actorID,
		Action:        action,
		TargetType:    models.TargetCourse,
		TargetID:      fmt.Sprintf("%d", course.ID),
		TargetDetails: datatypes.JSON(details),
	}
	if err := s.repo.AuditLog().Create(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

func (s *courseService) publishCourseEvent(ctx context.Context, eventType string, course *models.Course, actorID string) {
	event := events.NewEvent(eventType, actorID, map[string]interface{}{
		"course_id": course.ID,
		"title":     course.Title,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish course event", "type", eventType, "error", err)
	}
}
