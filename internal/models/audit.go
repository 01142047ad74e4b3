package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions recorded for privileged operations.
const (
	ActionCreateUser    = "CREATE_USER"
	ActionDeleteUser    = "DELETE_USER"
	ActionResetPassword = "RESET_PASSWORD"
	ActionCreateCourse  = "CREATE_COURSE"
	ActionUpdateCourse  = "UPDATE_COURSE"
	ActionDeleteCourse  = "DELETE_COURSE"
)

// Audit target types.
const (
	TargetUser   = "user"
	TargetCourse = "course"
)

// AuditLog is read-only from the client's perspective; rows are produced as a
// side effect of admin actions and fetched most-recent-first.
type AuditLog struct {
	ID            string         `json:"id" gorm:"primaryKey;size:36"`
	ActorID       string         `json:"actor_id" gorm:"not null;size:255;index"`
	Action        string         `json:"action" gorm:"not null;size:50;index"`
	TargetType    string         `json:"target_type" gorm:"not null;size:50;index"`
	TargetID      string         `json:"target_id" gorm:"not null;size:255"`
	TargetDetails datatypes.JSON `json:"target_details,omitempty"`
	IPAddress     string         `json:"ip_address" gorm:"size:64"`
	CreatedAt     time.Time      `json:"created_at" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "admin_audit_logs"
}
