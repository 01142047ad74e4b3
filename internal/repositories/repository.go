package repositories

import "context"

// Repository aggregates all per-domain repository interfaces.
type Repository interface {
	// Course domain
	Course() CourseRepository
	Enrollment() EnrollmentRepository

	// User domain (identity provider backed, read/admin)
	User() UserRepository

	// Audit domain
	AuditLog() AuditLogRepository

	// Dashboard domain
	Dashboard() DashboardRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
