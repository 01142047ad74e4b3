package services

import (
	"log/slog"
	"testing"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-platform/internal/repositories"
)

func TestNewDashboardService(t *testing.T) {
	type args struct {
		repo   repositories.Repository
		db     *gorm.DB
		logger *slog.Logger
	}
	tests := []struct {
		name string
		args args
		want DashboardService
	}{
		{
			name: "ok",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			NewDashboardService(tt.args.repo, tt.args.db, tt.args.logger)
		})
	}
}
