package models

import (
	"time"

	"gorm.io/gorm"
)

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

type Course struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Title       string          `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string         `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	Category    string          `json:"category" gorm:"not null;size:100;index" validate:"required,max=100"`
	Difficulty  DifficultyLevel `json:"difficulty_level" gorm:"not null;size:20;default:beginner" validate:"omitempty,oneof=beginner intermediate advanced"`
	MaxStudents int             `json:"max_students" gorm:"not null;default:30" validate:"required,min=1,max=1000"`
	StartDate   *time.Time      `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	CourseCode  *string         `json:"course_code" gorm:"size:50;uniqueIndex"`
	IsPublished bool            `json:"is_published" gorm:"not null;default:false;index"`

	// Metadata
	TeacherID string         `json:"teacher_id" gorm:"not null;index;size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Enrollments []Enrollment `json:"-" gorm:"foreignKey:CourseID"`

	// Computed fields (not stored)
	EnrolledCount int `json:"enrolled_count" gorm:"-"`
}

func (Course) TableName() string {
	return "courses"
}

// Enrollment links one student to one course. Rows are created with a fixed
// initial state (active, zero progress); uniqueness of a (course, student)
// pair is enforced by the database, not the client.
type Enrollment struct {
	ID                 uint             `json:"id" gorm:"primaryKey"`
	CourseID           uint             `json:"course_id" gorm:"not null;index:idx_course_student,unique"`
	StudentID          string           `json:"student_id" gorm:"not null;size:255;index:idx_course_student,unique"`
	Status             EnrollmentStatus `json:"status" gorm:"not null;size:20;default:active"`
	ProgressPercentage int              `json:"progress_percentage" gorm:"not null;default:0"`
	EnrolledAt         time.Time        `json:"enrolled_at" gorm:"autoCreateTime;index"`

	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "course_enrollments"
}

// Assignment exists only as a countable row for the admin dashboard; the
// assignment center itself is not part of this service.
type Assignment struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	CourseID  uint       `json:"course_id" gorm:"not null;index"`
	Title     string     `json:"title" gorm:"not null;size:200"`
	DueDate   *time.Time `json:"due_date"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Assignment) TableName() string {
	return "assignments"
}
