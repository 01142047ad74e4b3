package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/go-playground/validator/v10"
)

var courseCodePattern = regexp.MustCompile(`^[A-Z]{2,6}-?\d{2,4}$`)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateCourseCreate validates course creation business rules
func (bv *BusinessValidator) ValidateCourseCreate(req *CourseCreateRequest) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	// Additional business validations
	errors = append(errors, bv.validateCourseDates(req.StartDate, req.EndDate)...)

	return errors
}

// ValidateCourseUpdate validates course update business rules
func (bv *BusinessValidator) ValidateCourseUpdate(req *CourseUpdateRequest, existing *models.Course) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	// Resolve the dates the course would end up with
	start := existing.StartDate
	if req.StartDate != nil {
		start = req.StartDate
	}
	end := existing.EndDate
	if req.EndDate != nil {
		end = req.EndDate
	}
	errors = append(errors, bv.validateCourseDates(start, end)...)

	// Shrinking capacity below current enrollment is rejected
	if req.MaxStudents != nil && *req.MaxStudents > 0 && existing.EnrolledCount > *req.MaxStudents {
		errors = append(errors, ValidationError{
			Field:   "max_students",
			Message: "cannot be lower than current enrollment count",
			Value:   *req.MaxStudents,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateUserCreate validates privileged user creation business rules
func (bv *BusinessValidator) ValidateUserCreate(req *UserCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "first and last name cannot be blank",
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateEnrollment validates enrollment conditions against the target course
func (bv *BusinessValidator) ValidateEnrollment(course *models.Course, enrolledCount int64) ValidationErrors {
	var errors ValidationErrors

	if !course.IsPublished {
		errors = append(errors, ValidationError{
			Field:   "course",
			Message: "course is not open for enrollment",
			Value:   course.ID,
			Rule:    "business_logic",
		})
	}

	if course.EndDate != nil && time.Now().After(*course.EndDate) {
		errors = append(errors, ValidationError{
			Field:   "end_date",
			Message: "course has already ended",
			Value:   course.EndDate,
			Rule:    "business_logic",
		})
	}

	if course.MaxStudents > 0 && enrolledCount >= int64(course.MaxStudents) {
		errors = append(errors, ValidationError{
			Field:   "max_students",
			Message: "course is full",
			Value:   enrolledCount,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Title validation (1-200 characters)
	bv.validate.RegisterValidation("course_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 200
	})

	// Description validation (max 2000 characters)
	bv.validate.RegisterValidation("course_description", func(fl validator.FieldLevel) bool {
		desc := fl.Field().String()
		return len(desc) <= 2000
	})

	// Capacity validation (1-1000 students)
	bv.validate.RegisterValidation("max_students", func(fl validator.FieldLevel) bool {
		capacity := fl.Field().Int()
		return capacity >= 1 && capacity <= 1000
	})

	// Course code format, e.g. CS-101, MATH2001
	bv.validate.RegisterValidation("course_code", func(fl validator.FieldLevel) bool {
		return courseCodePattern.MatchString(fl.Field().String())
	})

	// difficulty level validation
	bv.validate.RegisterValidation("difficulty_level", func(fl validator.FieldLevel) bool {
		level := fl.Field().String()
		validLevels := []models.DifficultyLevel{models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced}
		for _, vl := range validLevels {
			if models.DifficultyLevel(level) == vl {
				return true
			}
		}
		return false
	})

	// role validation
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		validRoles := []models.UserRole{models.RoleStudent, models.RoleTeacher, models.RoleAdmin}
		for _, vr := range validRoles {
			if models.UserRole(role) == vr {
				return true
			}
		}
		return false
	})
}

// validateCourseDates checks start/end consistency
func (bv *BusinessValidator) validateCourseDates(start, end *time.Time) ValidationErrors {
	var errors ValidationErrors

	if start != nil && end != nil && !end.After(*start) {
		errors = append(errors, ValidationError{
			Field:   "end_date",
			Message: "must be after the start date",
			Value:   end,
			Rule:    "business_logic",
		})
	}

	return errors
}
