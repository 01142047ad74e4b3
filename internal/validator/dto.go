package validator

import (
	"time"

	"github.com/SAP-F-2025/learning-platform/internal/models"
)

// CourseCreateRequest represents the request structure for creating courses
type CourseCreateRequest struct {
	Title       string                  `json:"title" validate:"required,course_title"`
	Description *string                 `json:"description" validate:"omitempty,course_description"`
	Category    string                  `json:"category" validate:"required,max=100"`
	Difficulty  *models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	MaxStudents *int                    `json:"max_students" validate:"omitempty,max_students"`
	StartDate   *time.Time              `json:"start_date"`
	EndDate     *time.Time              `json:"end_date"`
	CourseCode  *string                 `json:"course_code" validate:"omitempty,course_code"`
	IsPublished bool                    `json:"is_published"`
}

// CourseUpdateRequest represents the request structure for updating courses
type CourseUpdateRequest struct {
	Title       *string                 `json:"title" validate:"omitempty,course_title"`
	Description *string                 `json:"description" validate:"omitempty,course_description"`
	Category    *string                 `json:"category" validate:"omitempty,max=100"`
	Difficulty  *models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	MaxStudents *int                    `json:"max_students" validate:"omitempty,max_students"`
	StartDate   *time.Time              `json:"start_date"`
	EndDate     *time.Time              `json:"end_date"`
	CourseCode  *string                 `json:"course_code" validate:"omitempty,course_code"`
	IsPublished *bool                   `json:"is_published"`
}

// UserCreateRequest represents the request structure for privileged user creation
type UserCreateRequest struct {
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,min=8,max=128"`
	FirstName string          `json:"first_name" validate:"required,max=100"`
	LastName  string          `json:"last_name" validate:"required,max=100"`
	Role      models.UserRole `json:"role" validate:"required,user_role"`
}

// SignInRequest represents the request structure for credential sign-in
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignUpRequest represents the request structure for self-service registration
type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}
