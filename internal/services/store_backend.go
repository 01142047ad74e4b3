package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
	"github.com/SAP-F-2025/learning-platform/internal/store"
)

// storeBackend adapts the service layer to the store package's backend
// interfaces, so a CourseStore and SessionStore can sit in front of the same
// business rules the HTTP handlers use. Operations run with the identity of
// the signed-in operator, resolved lazily through the session store itself.
type storeBackend struct {
	services ServiceManager
	actorID  func() string
}

// NewStoreBackend wires a ServiceManager into the store package. actorID
// resolves the acting user for permission checks on every call.
func NewStoreBackend(services ServiceManager, actorID func() string) store.CourseBackend {
	if actorID == nil {
		actorID = func() string { return "" }
	}
	return &storeBackend{services: services, actorID: actorID}
}

func (b *storeBackend) ListCourses(ctx context.Context) ([]*models.Course, error) {
	result, err := b.services.Course().List(ctx, repositories.CourseFilters{Limit: 200}, b.actorID())
	if err != nil {
		return nil, err
	}

	courses := make([]*models.Course, len(result.Courses))
	for i, resp := range result.Courses {
		courses[i] = resp.Course
	}
	return courses, nil
}

func (b *storeBackend) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	resp, err := b.services.Course().GetByID(ctx, id, b.actorID())
	if err != nil {
		return nil, err
	}
	return resp.Course, nil
}

func (b *storeBackend) CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	req := &CreateCourseRequest{
		Title:       course.Title,
		Description: course.Description,
		Category:    course.Category,
		CourseCode:  course.CourseCode,
		StartDate:   course.StartDate,
		EndDate:     course.EndDate,
		IsPublished: course.IsPublished,
	}
	if course.Difficulty != "" {
		difficulty := course.Difficulty
		req.Difficulty = &difficulty
	}
	if course.MaxStudents > 0 {
		capacity := course.MaxStudents
		req.MaxStudents = &capacity
	}

	resp, err := b.services.Course().Create(ctx, req, b.actorID())
	if err != nil {
		return nil, err
	}
	return resp.Course, nil
}

func (b *storeBackend) UpdateCourse(ctx context.Context, id uint, updates *models.Course) (*models.Course, error) {
	req := &UpdateCourseRequest{}
	if updates.Title != "" {
		title := updates.Title
		req.Title = &title
	}
	if updates.Description != nil {
		req.Description = updates.Description
	}
	if updates.Category != "" {
		category := updates.Category
		req.Category = &category
	}
	if updates.Difficulty != "" {
		difficulty := updates.Difficulty
		req.Difficulty = &difficulty
	}
	if updates.MaxStudents > 0 {
		capacity := updates.MaxStudents
		req.MaxStudents = &capacity
	}
	if updates.StartDate != nil {
		req.StartDate = updates.StartDate
	}
	if updates.EndDate != nil {
		req.EndDate = updates.EndDate
	}
	if updates.CourseCode != nil {
		req.CourseCode = updates.CourseCode
	}

	resp, err := b.services.Course().Update(ctx, id, req, b.actorID())
	if err != nil {
		return nil, err
	}
	return resp.Course, nil
}

func (b *storeBackend) DeleteCourse(ctx context.Context, id uint) error {
	return b.services.Course().Delete(ctx, id, b.actorID())
}

func (b *storeBackend) Enroll(ctx context.Context, courseID uint, studentID string) (*models.Enrollment, error) {
	resp, err := b.services.Enrollment().Enroll(ctx, courseID, studentID)
	if err != nil {
		return nil, err
	}
	return resp.Enrollment, nil
}

func (b *storeBackend) ListEnrolledCourses(ctx context.Context, studentID string) ([]*models.EnrolledCourse, error) {
	return b.services.Enrollment().GetMyCourses(ctx, studentID)
}

// repoProfileLoader adapts the user repository to store.ProfileLoader.
type repoProfileLoader struct {
	users repositories.UserRepository
}

func NewProfileLoader(users repositories.UserRepository) store.ProfileLoader {
	return &repoProfileLoader{users: users}
}

func (l *repoProfileLoader) LoadProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := l.users.GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("profile %s: %w", userID, ErrUserNotFound)
		}
		return nil, err
	}
	return user, nil
}
