package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
	"github.com/SAP-F-2025/learning-platform/internal/validator"
)

type MockCourseRepository struct {
	courses   map[uint]*models.Course
	deletions []uint
}

func (m *MockCourseRepository) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	m.courses[course.ID] = course
	return nil
}

func (m *MockCourseRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	course, ok := m.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return course, nil
}

func (m *MockCourseRepository) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	m.courses[course.ID] = course
	return nil
}

func (m *MockCourseRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	m.deletions = append(m.deletions, id)
	delete(m.courses, id)
	return nil
}

func (m *MockCourseRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	out := make([]*models.Course, 0, len(m.courses))
	for _, course := range m.courses {
		out = append(out, course)
	}
	return out, int64(len(out)), nil
}

func (m *MockCourseRepository) ExistsByCode(ctx context.Context, tx *gorm.DB, code string, excludeID *uint) (bool, error) {
	for _, course := range m.courses {
		if course.CourseCode != nil && *course.CourseCode == code {
			if excludeID != nil && course.ID == *excludeID {
				continue
			}
			return true, nil
		}
	}
	return false, nil
}

func newTestCourseService(repo *MockRepository) CourseService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewCourseService(repo, nil, logger, validator.NewValidator(), nil)
}

func TestCourseService_Delete(t *testing.T) {
	t.Run("absent course deletes successfully", func(t *testing.T) {
		repo := NewMockRepository()
		seedAdmin(repo)
		service := newTestCourseService(repo)

		if err := service.Delete(context.Background(), 42, "admin-1"); err != nil {
			t.Fatalf("Delete of absent course = %v, want nil", err)
		}
		if len(repo.courses.deletions) != 0 {
			t.Errorf("repository deletions = %v, want none", repo.courses.deletions)
		}
	})

	t.Run("non-owner without admin role is rejected", func(t *testing.T) {
		repo := NewMockRepository()
		repo.users.users["t-2"] = &models.User{ID: "t-2", Role: models.RoleTeacher}
		repo.courses.courses[7] = &models.Course{ID: 7, Title: "Algebra", TeacherID: "t-1"}
		service := newTestCourseService(repo)

		err := service.Delete(context.Background(), 7, "t-2")
		if err == nil {
			t.Fatal("Delete by non-owner succeeded, want permission error")
		}
		if _, ok := repo.courses.courses[7]; !ok {
			t.Error("course removed despite permission failure")
		}
	})
}
