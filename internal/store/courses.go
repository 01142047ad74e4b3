package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/learning-platform/internal/models"
)

// ErrStaleFetch is returned by a fetch whose response was dropped because
// a newer fetch started before it finished. The store state reflects the
// newer fetch; the stale caller should not retry.
var ErrStaleFetch = errors.New("fetch superseded by a newer fetch")

// CourseStore is an in-process cache over a CourseBackend. Reads populate
// the cache; mutations are confirmed by the backend first and then applied
// to the cached list, so the cache never contains writes the backend
// rejected.
//
// The catalog and the per-student enrolled list live in separate slots: a
// student's enrolled-courses fetch never overwrites the shared catalog.
//
// Concurrent fetches follow last-write-wins with generation tokens: when a
// newer fetch starts before an older one finishes, the older response is
// dropped instead of overwriting the newer state.
type CourseStore struct {
	backend CourseBackend
	logger  *slog.Logger

	mu              sync.RWMutex
	courses         []*models.Course
	enrolledCourses []*models.EnrolledCourse
	currentCourse   *models.Course
	loading         bool
	lastErr         error
	generation      uint64
}

func NewCourseStore(backend CourseBackend, logger *slog.Logger) *CourseStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CourseStore{backend: backend, logger: logger}
}

// ===== FETCHES =====

// FetchCourses refreshes the catalog slot from the backend.
func (s *CourseStore) FetchCourses(ctx context.Context) Result[[]*models.Course] {
	gen := s.beginFetch()

	courses, err := s.backend.ListCourses(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		// A newer fetch started; drop this response
		return Fail[[]*models.Course](ErrStaleFetch)
	}
	s.loading = false
	if err != nil {
		s.lastErr = err
		return Fail[[]*models.Course](err)
	}
	s.lastErr = nil
	s.courses = courses
	return Ok(courses)
}

// FetchCourse loads one course into the current-course slot. The catalog
// slot is not touched.
func (s *CourseStore) FetchCourse(ctx context.Context, id uint) Result[*models.Course] {
	gen := s.beginFetch()

	course, err := s.backend.GetCourse(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return Fail[*models.Course](ErrStaleFetch)
	}
	s.loading = false
	if err != nil {
		s.lastErr = err
		return Fail[*models.Course](err)
	}
	s.lastErr = nil
	s.currentCourse = course
	return Ok(course)
}

// FetchUserCourses refreshes the enrolled-courses slot for one student.
func (s *CourseStore) FetchUserCourses(ctx context.Context, studentID string) Result[[]*models.EnrolledCourse] {
	gen := s.beginFetch()

	enrolled, err := s.backend.ListEnrolledCourses(ctx, studentID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return Fail[[]*models.EnrolledCourse](ErrStaleFetch)
	}
	s.loading = false
	if err != nil {
		s.lastErr = err
		return Fail[[]*models.EnrolledCourse](err)
	}
	s.lastErr = nil
	s.enrolledCourses = enrolled
	return Ok(enrolled)
}

// ===== MUTATIONS =====

// CreateCourse persists a course and, on confirmation, prepends it to the
// cached catalog.
func (s *CourseStore) CreateCourse(ctx context.Context, course *models.Course) Result[*models.Course] {
	s.beginMutation()

	created, err := s.backend.CreateCourse(ctx, course)
	if err != nil {
		s.endMutation(err)
		return Fail[*models.Course](err)
	}

	s.mu.Lock()
	s.loading = false
	s.courses = append([]*models.Course{created}, s.courses...)
	s.mu.Unlock()
	return Ok(created)
}

// UpdateCourse persists the update and replaces the cached entry in place.
func (s *CourseStore) UpdateCourse(ctx context.Context, id uint, updates *models.Course) Result[*models.Course] {
	s.beginMutation()

	updated, err := s.backend.UpdateCourse(ctx, id, updates)
	if err != nil {
		s.endMutation(err)
		return Fail[*models.Course](err)
	}

	s.mu.Lock()
	s.loading = false
	for i, c := range s.courses {
		if c.ID == id {
			s.courses[i] = updated
			break
		}
	}
	if s.currentCourse != nil && s.currentCourse.ID == id {
		s.currentCourse = updated
	}
	s.mu.Unlock()
	return Ok(updated)
}

// DeleteCourse removes a course. Deleting an id absent from the cache is a
// success: the backend treats the delete as idempotent, and so does the
// cache.
func (s *CourseStore) DeleteCourse(ctx context.Context, id uint) Result[struct{}] {
	s.beginMutation()

	if err := s.backend.DeleteCourse(ctx, id); err != nil {
		s.endMutation(err)
		return Fail[struct{}](err)
	}

	s.mu.Lock()
	s.loading = false
	for i, c := range s.courses {
		if c.ID == id {
			s.courses = append(s.courses[:i], s.courses[i+1:]...)
			break
		}
	}
	if s.currentCourse != nil && s.currentCourse.ID == id {
		s.currentCourse = nil
	}
	s.mu.Unlock()
	return Ok(struct{}{})
}

// EnrollCourse enrolls a student. A duplicate enrollment is whatever the
// backend says it is; the store performs no local deduplication.
func (s *CourseStore) EnrollCourse(ctx context.Context, courseID uint, studentID string) Result[*models.Enrollment] {
	s.beginMutation()

	enrollment, err := s.backend.Enroll(ctx, courseID, studentID)
	if err != nil {
		s.endMutation(err)
		return Fail[*models.Enrollment](err)
	}

	s.endMutation(nil)
	return Ok(enrollment)
}

// ===== STATE ACCESSORS =====

// Courses returns the cached catalog slice. Callers must not mutate it.
func (s *CourseStore) Courses() []*models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courses
}

func (s *CourseStore) EnrolledCourses() []*models.EnrolledCourse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enrolledCourses
}

func (s *CourseStore) CurrentCourse() *models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentCourse
}

func (s *CourseStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *CourseStore) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ===== INTERNAL =====

// beginFetch marks the store loading and returns the generation token the
// caller must present to apply its response.
func (s *CourseStore) beginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.generation++
	return s.generation
}

// beginMutation marks the store loading and clears the previous error.
// Unlike beginFetch it does not advance the generation: a mutation is
// never dropped as stale.
func (s *CourseStore) beginMutation() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *CourseStore) endMutation(err error) {
	s.mu.Lock()
	s.loading = false
	s.lastErr = err
	s.mu.Unlock()
}
