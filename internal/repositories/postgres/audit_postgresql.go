package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
)

const maxAuditPageSize = 100

type AuditLogPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAuditLogPostgreSQL(db *gorm.DB) repositories.AuditLogRepository {
	return &AuditLogPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (r *AuditLogPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create persists one audit entry; the id is assigned here if the producer
// did not set one.
func (r *AuditLogPostgreSQL) Create(ctx context.Context, tx *gorm.DB, entry *models.AuditLog) error {
	db := r.getDB(tx)

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	return nil
}

// List returns audit entries most recent first with a bounded page size
func (r *AuditLogPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.AuditLogFilters) ([]*models.AuditLog, int64, error) {
	db := r.getDB(tx)

	if filters.Limit <= 0 || filters.Limit > maxAuditPageSize {
		filters.Limit = 50
	}

	query := db.WithContext(ctx).Model(&models.AuditLog{})
	query = r.helpers.ApplyAuditFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	var entries []*models.AuditLog
	if err := query.
		Order("created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}

	return entries, total, nil
}
