package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
)

// ===== RESPONSE DTOs =====

type DashboardStatsResponse struct {
	TotalCourses     int64 `json:"total_courses"`
	TotalUsers       int64 `json:"total_users"`
	TotalEnrollments int64 `json:"total_enrollments"`
	TotalAssignments int64 `json:"total_assignments"`
}

// ===== SERVICE IMPLEMENTATION =====

type dashboardService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// GetStats gathers the four admin counters. Each count is independent: one
// failing query logs a warning and reports zero, the others still come back
// with real values.
func (s *dashboardService) GetStats(ctx context.Context) (*DashboardStatsResponse, error) {
	s.logger.Info("Getting dashboard stats")

	stats := &DashboardStatsResponse{}

	if count, err := s.repo.Dashboard().GetTotalCourses(ctx, nil); err != nil {
		s.logger.Warn("Failed to count courses", "error", err)
	} else {
		stats.TotalCourses = count
	}

	if count, err := s.repo.Dashboard().GetTotalUsers(ctx, nil); err != nil {
		s.logger.Warn("Failed to count users", "error", err)
	} else {
		stats.TotalUsers = count
	}

	if count, err := s.repo.Dashboard().GetTotalEnrollments(ctx, nil); err != nil {
		s.logger.Warn("Failed to count enrollments", "error", err)
	} else {
		stats.TotalEnrollments = count
	}

	if count, err := s.repo.Dashboard().GetTotalAssignments(ctx, nil); err != nil {
		s.logger.Warn("Failed to count assignments", "error", err)
	} else {
		stats.TotalAssignments = count
	}

	return stats, nil
}

func (s *dashboardService) GetRecentActivity(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	entries, err := s.repo.Dashboard().GetRecentAuditEntries(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent activity: %w", err)
	}

	return entries, nil
}
