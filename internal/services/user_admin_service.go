package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-platform/internal/events"
	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
	"github.com/SAP-F-2025/learning-platform/internal/validator"
)

type userAdminService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.Publisher
}

func NewUserAdminService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.Publisher) UserAdminService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &userAdminService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// CreateUser provisions the authentication identity and the profile through
// one path, records the audit entry, and publishes the creation event. The
// caller's admin role has already been enforced at the transport layer; it is
// re-checked here so the service cannot be misused from other entry points.
func (s *userAdminService) CreateUser(ctx context.Context, req *CreateUserRequest, actorID, actorIP string) (*models.User, error) {
	s.logger.Info("Creating user", "email", req.Email, "role", req.Role, "actor_id", actorID)

	if errs := s.validator.GetBusinessValidator().ValidateUserCreate(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	taken, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	}

	created, err := s.repo.User().Create(ctx, user, req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.recordUserAudit(ctx, models.ActionCreateUser, created.ID, actorID, actorIP, map[string]interface{}{
		"email": created.Email,
		"role":  created.Role,
	})

	event := events.NewEvent(events.EventUserCreated, actorID, map[string]interface{}{
		"user_id": created.ID,
		"role":    created.Role,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish user event", "error", err)
	}

	s.logger.Info("User created successfully", "user_id", created.ID)
	return created, nil
}

// DeleteUser removes the profile and the authentication identity. Admins
// cannot delete themselves.
func (s *userAdminService) DeleteUser(ctx context.Context, userID, actorID, actorIP string) error {
	s.logger.Info("Deleting user", "user_id", userID, "actor_id", actorID)

	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if userID == actorID {
		return ErrSelfDeletion
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.repo.User().Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.recordUserAudit(ctx, models.ActionDeleteUser, userID, actorID, actorIP, map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})

	event := events.NewEvent(events.EventUserDeleted, actorID, map[string]interface{}{
		"user_id": userID,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish user event", "error", err)
	}

	s.logger.Info("User deleted successfully", "user_id", userID)
	return nil
}

func (s *userAdminService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userAdminService) ListUsers(ctx context.Context, filters repositories.UserFilters) (*models.UserListResponse, error) {
	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &models.UserListResponse{
		Users: users,
		Total: total,
		Page:  page,
		Size:  len(users),
	}, nil
}

// ===== HELPERS =====

func (s *userAdminService) requireAdmin(ctx context.Context, actorID string) error {
	isAdmin, err := s.repo.User().HasRole(ctx, actorID, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("permission check failed: %w", err)
	}
	if !isAdmin {
		return NewPermissionError(actorID, "user", "manage", "admin role required")
	}
	return nil
}

// recordUserAudit writes the audit row outside any transaction; a failed
// audit write is logged, not propagated, so it cannot undo the identity
// change it describes.
func (s *userAdminService) recordUserAudit(ctx context.Context, action, targetID, actorID, actorIP string, details map[string]interface{}) {
	raw, _ := json.Marshal(details)
	entry := &models.AuditLog{
		ActorID:       actorID,
		Action:        action,
		TargetType:    models.TargetUser,
		TargetID:      targetID,
		TargetDetails: datatypes.JSON(raw),
		IPAddress:     actorIP,
	}
	if err := s.repo.AuditLog().Create(ctx, s.db, entry); err != nil {
		s.logger.Error("Failed to record audit entry", "action", action, "error", err)
	}
}
