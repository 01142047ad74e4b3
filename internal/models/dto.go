package models

import "time"

// ===== LIST RESPONSES =====

type CourseListResponse struct {
	Courses []*Course `json:"courses"`
	Total   int64     `json:"total"`
	Page    int       `json:"page"`
	Size    int       `json:"size"`
}

type UserListResponse struct {
	Users []*User `json:"users"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Size  int     `json:"size"`
}

type AuditLogListResponse struct {
	Entries []*AuditLog `json:"entries"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	Size    int         `json:"size"`
}

// EnrolledCourse is an enrollment row joined with its course, the shape the
// "my courses" view renders. It is deliberately distinct from Course so the
// two never share a cache slot.
type EnrolledCourse struct {
	Enrollment Enrollment `json:"enrollment"`
	Course     Course     `json:"course"`
}

// ===== ERROR RESPONSES =====

type SuccessResponse struct {
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
