package store

import (
	"context"
	"time"

	"github.com/SAP-F-2025/learning-platform/internal/models"
)

// AuthSession is the raw authenticated session handed back by an
// AuthProvider: the bearer token plus the identity claims parsed out of it.
// Profile data is loaded separately through a ProfileLoader.
type AuthSession struct {
	Token     string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// AuthProvider is the remote identity service the SessionStore drives.
// CurrentSession returns (nil, nil) when nobody is signed in; an error means
// the provider could not be reached, not that the session is absent.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)
	SignUp(ctx context.Context, email, password string, data map[string]string) (*AuthSession, error)
	SignOut(ctx context.Context, session *AuthSession) error
	CurrentSession(ctx context.Context) (*AuthSession, error)
}

// ProfileLoader resolves the application profile for an authenticated user.
type ProfileLoader interface {
	LoadProfile(ctx context.Context, userID string) (*models.User, error)
}

// CourseBackend is the persistence surface the CourseStore mutates and
// caches over. The server wires it to its service layer; the operator CLI
// wires it to the HTTP API.
type CourseBackend interface {
	ListCourses(ctx context.Context) ([]*models.Course, error)
	GetCourse(ctx context.Context, id uint) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error)
	UpdateCourse(ctx context.Context, id uint, updates *models.Course) (*models.Course, error)
	DeleteCourse(ctx context.Context, id uint) error
	Enroll(ctx context.Context, courseID uint, studentID string) (*models.Enrollment, error)
	ListEnrolledCourses(ctx context.Context, studentID string) ([]*models.EnrolledCourse, error)
}
