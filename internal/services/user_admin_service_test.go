package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-platform/internal/events"
	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
	"github.com/SAP-F-2025/learning-platform/internal/validator"
)

// MockRepository for testing - minimal implementation
type MockRepository struct {
	users   *MockUserRepository
	courses *MockCourseRepository
	audit   *MockAuditLogRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:   &MockUserRepository{users: make(map[string]*models.User)},
		courses: &MockCourseRepository{courses: make(map[uint]*models.Course)},
		audit:   &MockAuditLogRepository{},
	}
}

func (m *MockRepository) Course() repositories.CourseRepository         { return m.courses }
func (m *MockRepository) Enrollment() repositories.EnrollmentRepository { return nil }
func (m *MockRepository) User() repositories.UserRepository             { return m.users }
func (m *MockRepository) AuditLog() repositories.AuditLogRepository     { return m.audit }
func (m *MockRepository) Dashboard() repositories.DashboardRepository   { return nil }
func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

type MockUserRepository struct {
	users     map[string]*models.User
	nextID    int
	createErr error
	deleteErr error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	out := make([]*models.User, 0, len(m.users))
	for _, user := range m.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		out = append(out, user)
	}
	return out, int64(len(out)), nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (m *MockUserRepository) HasRole(ctx context.Context, id string, role models.UserRole) (bool, error) {
	user, ok := m.users[id]
	if !ok {
		return false, nil
	}
	return user.Role == role, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	created := *user
	created.ID = fmt.Sprintf("user-%d", m.nextID)
	m.users[created.ID] = &created
	return &created, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.users, id)
	return nil
}

type MockAuditLogRepository struct {
	entries []*models.AuditLog
}

func (m *MockAuditLogRepository) Create(ctx context.Context, tx *gorm.DB, entry *models.AuditLog) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockAuditLogRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.AuditLogFilters) ([]*models.AuditLog, int64, error) {
	return m.entries, int64(len(m.entries)), nil
}

func newTestUserAdminService(repo *MockRepository, publisher events.Publisher) UserAdminService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewUserAdminService(repo, nil, logger, validator.NewValidator(), publisher)
}

func seedAdmin(repo *MockRepository) string {
	repo.users.users["admin-1"] = &models.User{ID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin}
	return "admin-1"
}

func TestUserAdminService_CreateUser(t *testing.T) {
	t.Run("admin creates user, audit entry and event recorded", func(t *testing.T) {
		repo := NewMockRepository()
		adminID := seedAdmin(repo)
		publisher := events.NewMockPublisher(nil)
		service := newTestUserAdminService(repo, publisher)

		req := &CreateUserRequest{
			Email:     "new@example.com",
			Password:  "supersecret",
			FirstName: "New",
			LastName:  "Person",
			Role:      models.RoleStudent,
		}

		user, err := service.CreateUser(context.Background(), req, adminID, "10.0.0.1")
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == "" {
			t.Error("created user has no id")
		}

		if len(repo.audit.entries) != 1 {
			t.Fatalf("audit entries = %d, want 1", len(repo.audit.entries))
		}
		entry := repo.audit.entries[0]
		if entry.Action != models.ActionCreateUser || entry.ActorID != adminID {
			t.Errorf("unexpected audit entry: %+v", entry)
		}
		if entry.IPAddress != "10.0.0.1" {
			t.Errorf("audit ip = %q, want 10.0.0.1", entry.IPAddress)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventUserCreated {
			t.Errorf("expected one user.created event, got %+v", published)
		}
	})

	t.Run("non-admin actor is rejected", func(t *testing.T) {
		repo := NewMockRepository()
		repo.users.users["t-1"] = &models.User{ID: "t-1", Role: models.RoleTeacher}
		service := newTestUserAdminService(repo, nil)

		req := &CreateUserRequest{
			Email:     "new@example.com",
			Password:  "supersecret",
			FirstName: "New",
			LastName:  "Person",
			Role:      models.RoleStudent,
		}

		_, err := service.CreateUser(context.Background(), req, "t-1", "")
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		repo := NewMockRepository()
		adminID := seedAdmin(repo)
		service := newTestUserAdminService(repo, nil)

		req := &CreateUserRequest{
			Email:     "admin@example.com",
			Password:  "supersecret",
			FirstName: "Dup",
			LastName:  "User",
			Role:      models.RoleStudent,
		}

		_, err := service.CreateUser(context.Background(), req, adminID, "")
		if !errors.Is(err, ErrEmailTaken) {
			t.Fatalf("err = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("invalid request fails validation", func(t *testing.T) {
		repo := NewMockRepository()
		adminID := seedAdmin(repo)
		service := newTestUserAdminService(repo, nil)

		req := &CreateUserRequest{Email: "not-an-email", Password: "short", Role: "ghost"}

		_, err := service.CreateUser(context.Background(), req, adminID, "")
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("err = %v, want ErrValidationFailed", err)
		}
	})
}

func TestUserAdminService_DeleteUser(t *testing.T) {
	t.Run("admin deletes user, audit recorded", func(t *testing.T) {
		repo := NewMockRepository()
		adminID := seedAdmin(repo)
		repo.users.users["u-9"] = &models.User{ID: "u-9", Email: "gone@example.com", Role: models.RoleStudent}
		publisher := events.NewMockPublisher(nil)
		service := newTestUserAdminService(repo, publisher)

		if err := service.DeleteUser(context.Background(), "u-9", adminID, "10.0.0.2"); err != nil {
			t.Fatalf("DeleteUser failed: %v", err)
		}
		if _, ok := repo.users.users["u-9"]; ok {
			t.Error("user still present after delete")
		}
		if len(repo.audit.entries) != 1 || repo.audit.entries[0].Action != models.ActionDeleteUser {
			t.Errorf("unexpected audit entries: %+v", repo.audit.entries)
		}
	})

	t.Run("self deletion is rejected", func(t *testing.T) {
		repo := NewMockRepository()
		adminID := seedAdmin(repo)
		service := newTestUserAdminService(repo, nil)

		err := service.DeleteUser(context.Background(), adminID, adminID, "")
		if !errors.Is(err, ErrSelfDeletion) {
			t.Fatalf("err = %v, want ErrSelfDeletion", err)
		}
	})

	t.Run("absent user is not found", func(t *testing.T) {
		repo := NewMockRepository()
		adminID := seedAdmin(repo)
		service := newTestUserAdminService(repo, nil)

		err := service.DeleteUser(context.Background(), "missing", adminID, "")
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("err = %v, want ErrUserNotFound", err)
		}
	})
}
