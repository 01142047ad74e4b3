package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
)

const exportPageSize = 500

type exportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// ExportUsers renders the filtered user list as an xlsx workbook.
func (s *exportService) ExportUsers(ctx context.Context, filters repositories.UserFilters) ([]byte, error) {
	s.logger.Info("Exporting users")

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Users"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"ID", "Email", "First Name", "Last Name", "Role", "Verified", "Created At"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return nil, err
	}

	row := 2
	filters.Offset = 0
	filters.Limit = exportPageSize
	for {
		users, _, err := s.repo.User().List(ctx, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list users for export: %w", err)
		}
		if len(users) == 0 {
			break
		}

		for _, user := range users {
			values := []interface{}{
				user.ID,
				user.Email,
				user.FirstName,
				user.LastName,
				string(user.Role),
				user.EmailVerified,
				user.CreatedAt.Format(time.RFC3339),
			}
			if err := writeDataRow(f, sheet, row, values); err != nil {
				return nil, err
			}
			row++
		}

		if len(users) < exportPageSize {
			break
		}
		filters.Offset += exportPageSize
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("Users exported", "rows", row-2)
	return buf.Bytes(), nil
}

// ExportCourses renders the filtered course list as an xlsx workbook.
func (s *exportService) ExportCourses(ctx context.Context, filters repositories.CourseFilters) ([]byte, error) {
	s.logger.Info("Exporting courses")

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Courses"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"ID", "Title", "Category", "Difficulty", "Code", "Teacher ID", "Published", "Max Students", "Enrolled", "Created At"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return nil, err
	}

	row := 2
	filters.Offset = 0
	filters.Limit = exportPageSize
	for {
		courses, _, err := s.repo.Course().List(ctx, s.db, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list courses for export: %w", err)
		}
		if len(courses) == 0 {
			break
		}

		for _, course := range courses {
			if err := writeDataRow(f, sheet, row, s.courseRow(ctx, course)); err != nil {
				return nil, err
			}
			row++
		}

		if len(courses) < exportPageSize {
			break
		}
		filters.Offset += exportPageSize
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("Courses exported", "rows", row-2)
	return buf.Bytes(), nil
}

func (s *exportService) courseRow(ctx context.Context, course *models.Course) []interface{} {
	code := ""
	if course.CourseCode != nil {
		code = *course.CourseCode
	}

	enrolled := int64(0)
	if count, err := s.repo.Enrollment().CountByCourse(ctx, s.db, course.ID); err == nil {
		enrolled = count
	} else {
		s.logger.Warn("Failed to count enrollments for export", "course_id", course.ID, "error", err)
	}

	return []interface{}{
		course.ID,
		course.Title,
		course.Category,
		string(course.Difficulty),
		code,
		course.TeacherID,
		course.IsPublished,
		course.MaxStudents,
		enrolled,
		course.CreatedAt.Format(time.RFC3339),
	}
}

// ===== SHEET HELPERS =====

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	return nil
}

func writeDataRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("failed to compute cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell: %w", err)
		}
	}
	return nil
}
