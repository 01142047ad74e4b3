package services

import (
	"errors"
	"fmt"
)

// ===== SENTINEL ERRORS =====

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")

	ErrCourseNotFound  = errors.New("course not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrCourseCodeTaken = errors.New("course code already in use")
	ErrEmailTaken      = errors.New("email already registered")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrCourseFull      = errors.New("course is at capacity")
	ErrCourseNotOpen   = errors.New("course is not open for enrollment")
	ErrSelfDeletion    = errors.New("cannot delete your own account")
)

// PermissionError carries the who/what/why of a rejected operation.
// It matches errors.Is(err, ErrForbidden).
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{UserID: userID, Resource: resource, Action: action, Reason: reason}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrForbidden
}
