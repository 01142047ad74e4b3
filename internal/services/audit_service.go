package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
)

type auditService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewAuditService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *auditService) Record(ctx context.Context, entry *models.AuditLog) error {
	if entry.ActorID == "" || entry.Action == "" {
		return fmt.Errorf("%w: actor and action are required", ErrValidationFailed)
	}

	if err := s.repo.AuditLog().Create(ctx, s.db, entry); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// List returns audit entries most recent first. Filtering covers action,
// target type, actor, date range and a free-text search across action,
// target type and target id.
func (s *auditService) List(ctx context.Context, filters repositories.AuditLogFilters) (*models.AuditLogListResponse, error) {
	entries, total, err := s.repo.AuditLog().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &models.AuditLogListResponse{
		Entries: entries,
		Total:   total,
		Page:    page,
		Size:    len(entries),
	}, nil
}
