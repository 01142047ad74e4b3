package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
)

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// ===== DASHBOARD COUNTS =====

func (r *dashboardRepository) GetTotalCourses(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Course{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total courses: %w", err)
	}

	return count, nil
}

func (r *dashboardRepository) GetTotalUsers(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total users: %w", err)
	}

	return count, nil
}

func (r *dashboardRepository) GetTotalEnrollments(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total enrollments: %w", err)
	}

	return count, nil
}

func (r *dashboardRepository) GetTotalAssignments(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Assignment{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total assignments: %w", err)
	}

	return count, nil
}

// GetRecentAuditEntries returns the most recent audit entries for the
// dashboard activity panel.
func (r *dashboardRepository) GetRecentAuditEntries(ctx context.Context, tx *gorm.DB, limit int) ([]*models.AuditLog, error) {
	db := r.getDB(tx)

	if limit <= 0 || limit > 50 {
		limit = 5
	}

	var entries []*models.AuditLog
	if err := db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent audit entries: %w", err)
	}

	return entries, nil
}
