package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/SAP-F-2025/learning-platform/internal/models"
)

// ===== TEST DOUBLES =====

type fakeCourseBackend struct {
	mu sync.Mutex

	listFn   func(ctx context.Context) ([]*models.Course, error)
	getFn    func(ctx context.Context, id uint) (*models.Course, error)
	createFn func(ctx context.Context, course *models.Course) (*models.Course, error)
	updateFn func(ctx context.Context, id uint, updates *models.Course) (*models.Course, error)
	deleteFn func(ctx context.Context, id uint) error
	enrollFn func(ctx context.Context, courseID uint, studentID string) (*models.Enrollment, error)
	listEnFn func(ctx context.Context, studentID string) ([]*models.EnrolledCourse, error)

	enrollCalls int
}

func (f *fakeCourseBackend) ListCourses(ctx context.Context) ([]*models.Course, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

func (f *fakeCourseBackend) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	if f.getFn == nil {
		return nil, errors.New("not configured")
	}
	return f.getFn(ctx, id)
}

func (f *fakeCourseBackend) CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	if f.createFn == nil {
		return nil, errors.New("not configured")
	}
	return f.createFn(ctx, course)
}

func (f *fakeCourseBackend) UpdateCourse(ctx context.Context, id uint, updates *models.Course) (*models.Course, error) {
	if f.updateFn == nil {
		return nil, errors.New("not configured")
	}
	return f.updateFn(ctx, id, updates)
}

func (f *fakeCourseBackend) DeleteCourse(ctx context.Context, id uint) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeCourseBackend) Enroll(ctx context.Context, courseID uint, studentID string) (*models.Enrollment, error) {
	f.mu.Lock()
	f.enrollCalls++
	f.mu.Unlock()
	if f.enrollFn == nil {
		return nil, errors.New("not configured")
	}
	return f.enrollFn(ctx, courseID, studentID)
}

func (f *fakeCourseBackend) ListEnrolledCourses(ctx context.Context, studentID string) ([]*models.EnrolledCourse, error) {
	if f.listEnFn == nil {
		return nil, nil
	}
	return f.listEnFn(ctx, studentID)
}

func catalog(ids ...uint) []*models.Course {
	courses := make([]*models.Course, 0, len(ids))
	for _, id := range ids {
		courses = append(courses, &models.Course{ID: id, Title: "Course"})
	}
	return courses
}

// ===== TESTS =====

func TestCourseStore_FetchCourses(t *testing.T) {
	t.Run("success fills the catalog and clears loading", func(t *testing.T) {
		backend := &fakeCourseBackend{
			listFn: func(ctx context.Context) ([]*models.Course, error) {
				return catalog(1, 2, 3), nil
			},
		}
		store := NewCourseStore(backend, nil)

		result := store.FetchCourses(context.Background())
		if !result.Success {
			t.Fatalf("fetch failed: %v", result.Err)
		}
		if len(store.Courses()) != 3 {
			t.Errorf("catalog size = %d, want 3", len(store.Courses()))
		}
		if store.IsLoading() {
			t.Error("loading flag still set after fetch")
		}
		if store.LastError() != nil {
			t.Errorf("lastErr = %v, want nil", store.LastError())
		}
	})

	t.Run("failure clears loading and records the error", func(t *testing.T) {
		backendErr := errors.New("backend down")
		backend := &fakeCourseBackend{
			listFn: func(ctx context.Context) ([]*models.Course, error) {
				return nil, backendErr
			},
		}
		store := NewCourseStore(backend, nil)

		result := store.FetchCourses(context.Background())
		if result.Success {
			t.Fatal("expected failure result")
		}
		if store.IsLoading() {
			t.Error("loading flag must clear on failure too")
		}
		if !errors.Is(store.LastError(), backendErr) {
			t.Errorf("lastErr = %v, want %v", store.LastError(), backendErr)
		}
	})

	t.Run("stale response is dropped when a newer fetch finished", func(t *testing.T) {
		staleStarted := make(chan struct{})
		release := make(chan struct{})
		calls := 0
		var mu sync.Mutex

		backend := &fakeCourseBackend{}
		backend.listFn = func(ctx context.Context) ([]*models.Course, error) {
			mu.Lock()
			calls++
			first := calls == 1
			mu.Unlock()
			if first {
				close(staleStarted)
				<-release
				return catalog(99), nil // stale answer
			}
			return catalog(1, 2), nil
		}
		store := NewCourseStore(backend, nil)

		done := make(chan Result[[]*models.Course])
		go func() { done <- store.FetchCourses(context.Background()) }()
		<-staleStarted

		// Newer fetch starts and completes while the first is in flight
		if result := store.FetchCourses(context.Background()); !result.Success {
			t.Fatalf("second fetch failed: %v", result.Err)
		}
		close(release)
		stale := <-done

		if stale.Success {
			t.Error("stale fetch must not report success")
		}
		if !errors.Is(stale.Err, ErrStaleFetch) {
			t.Errorf("stale fetch err = %v, want ErrStaleFetch", stale.Err)
		}
		if got := store.Courses(); len(got) != 2 {
			t.Errorf("catalog = %d courses, want the newer fetch's 2", len(got))
		}
	})
}

func TestCourseStore_FetchCourse_DoesNotTouchCatalog(t *testing.T) {
	backend := &fakeCourseBackend{
		listFn: func(ctx context.Context) ([]*models.Course, error) {
			return catalog(1, 2), nil
		},
		getFn: func(ctx context.Context, id uint) (*models.Course, error) {
			return &models.Course{ID: id, Title: "Single"}, nil
		},
	}
	store := NewCourseStore(backend, nil)
	store.FetchCourses(context.Background())

	result := store.FetchCourse(context.Background(), 7)
	if !result.Success {
		t.Fatalf("fetch failed: %v", result.Err)
	}
	if store.CurrentCourse() == nil || store.CurrentCourse().ID != 7 {
		t.Error("current course slot not set")
	}
	if len(store.Courses()) != 2 {
		t.Error("catalog slot must not change on a single-course fetch")
	}
}

func TestCourseStore_FetchUserCourses_SeparateSlot(t *testing.T) {
	backend := &fakeCourseBackend{
		listFn: func(ctx context.Context) ([]*models.Course, error) {
			return catalog(1, 2, 3), nil
		},
		listEnFn: func(ctx context.Context, studentID string) ([]*models.EnrolledCourse, error) {
			return []*models.EnrolledCourse{
				{Course: models.Course{ID: 2}},
			}, nil
		},
	}
	store := NewCourseStore(backend, nil)
	store.FetchCourses(context.Background())

	result := store.FetchUserCourses(context.Background(), "u1")
	if !result.Success {
		t.Fatalf("fetch failed: %v", result.Err)
	}
	if len(store.EnrolledCourses()) != 1 {
		t.Errorf("enrolled slot = %d, want 1", len(store.EnrolledCourses()))
	}
	if len(store.Courses()) != 3 {
		t.Error("catalog slot must survive an enrolled-courses fetch")
	}
}

func TestCourseStore_CreateCourse(t *testing.T) {
	t.Run("confirmed create prepends exactly once", func(t *testing.T) {
		backend := &fakeCourseBackend{
			listFn: func(ctx context.Context) ([]*models.Course, error) {
				return catalog(1, 2), nil
			},
			createFn: func(ctx context.Context, course *models.Course) (*models.Course, error) {
				created := *course
				created.ID = 10
				return &created, nil
			},
		}
		store := NewCourseStore(backend, nil)
		store.FetchCourses(context.Background())

		result := store.CreateCourse(context.Background(), &models.Course{Title: "New"})
		if !result.Success {
			t.Fatalf("create failed: %v", result.Err)
		}

		courses := store.Courses()
		if len(courses) != 3 {
			t.Fatalf("catalog size = %d, want 3", len(courses))
		}
		if courses[0].ID != 10 {
			t.Errorf("new course must be first, got id %d", courses[0].ID)
		}
	})

	t.Run("loading is set while the create is in flight", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		backend := &fakeCourseBackend{
			createFn: func(ctx context.Context, course *models.Course) (*models.Course, error) {
				close(started)
				<-release
				return course, nil
			},
		}
		store := NewCourseStore(backend, nil)
		store.endMutation(errors.New("earlier failure"))

		done := make(chan Result[*models.Course])
		go func() { done <- store.CreateCourse(context.Background(), &models.Course{Title: "Slow"}) }()
		<-started

		if !store.IsLoading() {
			t.Error("loading flag not set while the backend call is in flight")
		}
		if store.LastError() != nil {
			t.Errorf("lastErr = %v, want cleared at mutation start", store.LastError())
		}

		close(release)
		if result := <-done; !result.Success {
			t.Fatalf("create failed: %v", result.Err)
		}
		if store.IsLoading() {
			t.Error("loading flag still set after the mutation finished")
		}
	})

	t.Run("rejected create leaves the catalog untouched", func(t *testing.T) {
		backend := &fakeCourseBackend{
			listFn: func(ctx context.Context) ([]*models.Course, error) {
				return catalog(1, 2), nil
			},
			createFn: func(ctx context.Context, course *models.Course) (*models.Course, error) {
				return nil, errors.New("validation failed")
			},
		}
		store := NewCourseStore(backend, nil)
		store.FetchCourses(context.Background())

		if result := store.CreateCourse(context.Background(), &models.Course{}); result.Success {
			t.Fatal("expected failure result")
		}
		if len(store.Courses()) != 2 {
			t.Error("rejected create must not touch the catalog")
		}
	})
}

func TestCourseStore_UpdateCourse_ReplacesInPlace(t *testing.T) {
	backend := &fakeCourseBackend{
		listFn: func(ctx context.Context) ([]*models.Course, error) {
			return catalog(1, 2, 3), nil
		},
		updateFn: func(ctx context.Context, id uint, updates *models.Course) (*models.Course, error) {
			return &models.Course{ID: id, Title: "Updated"}, nil
		},
	}
	store := NewCourseStore(backend, nil)
	store.FetchCourses(context.Background())

	result := store.UpdateCourse(context.Background(), 2, &models.Course{Title: "Updated"})
	if !result.Success {
		t.Fatalf("update failed: %v", result.Err)
	}

	courses := store.Courses()
	if len(courses) != 3 {
		t.Fatalf("catalog size changed on update: %d", len(courses))
	}
	if courses[1].ID != 2 || courses[1].Title != "Updated" {
		t.Errorf("entry 2 not replaced in place: %+v", courses[1])
	}
}

func TestCourseStore_DeleteCourse(t *testing.T) {
	tests := []struct {
		name     string
		deleteID uint
		wantLen  int
	}{
		{"removes exactly one matching entry", 2, 2},
		{"absent id succeeds and removes nothing", 42, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeCourseBackend{
				listFn: func(ctx context.Context) ([]*models.Course, error) {
					return catalog(1, 2, 3), nil
				},
			}
			store := NewCourseStore(backend, nil)
			store.FetchCourses(context.Background())

			result := store.DeleteCourse(context.Background(), tt.deleteID)
			if !result.Success {
				t.Fatalf("delete failed: %v", result.Err)
			}
			if got := len(store.Courses()); got != tt.wantLen {
				t.Errorf("catalog size = %d, want %d", got, tt.wantLen)
			}
			for _, c := range store.Courses() {
				if c.ID == tt.deleteID {
					t.Errorf("course %d still cached after delete", tt.deleteID)
				}
			}
		})
	}
}

func TestCourseStore_EnrollCourse_DuplicateSurfacesBackendResult(t *testing.T) {
	duplicateErr := errors.New("already enrolled")
	backend := &fakeCourseBackend{}
	backend.enrollFn = func(ctx context.Context, courseID uint, studentID string) (*models.Enrollment, error) {
		if backend.enrollCalls > 1 {
			return nil, duplicateErr
		}
		return &models.Enrollment{CourseID: courseID, StudentID: studentID}, nil
	}
	store := NewCourseStore(backend, nil)

	first := store.EnrollCourse(context.Background(), 1, "u1")
	if !first.Success {
		t.Fatalf("first enroll failed: %v", first.Err)
	}

	second := store.EnrollCourse(context.Background(), 1, "u1")
	if second.Success {
		t.Fatal("duplicate enroll must surface the backend rejection")
	}
	if !errors.Is(second.Err, duplicateErr) {
		t.Errorf("err = %v, want %v", second.Err, duplicateErr)
	}
	if backend.enrollCalls != 2 {
		t.Errorf("backend calls = %d, want 2 (no local dedup)", backend.enrollCalls)
	}
}
