package casdoor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
)

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

var ErrUserNotFound = fmt.Errorf("user %w", repositories.ErrNotFound)

// UserCasdoor implements repositories.UserRepository. Authentication
// identities live in Casdoor; the profile row (name, role, avatar) is
// mirrored in the local user_profiles table and is the authoritative source
// for role decisions. Privileged create/delete touch both in one path.
type UserCasdoor struct {
	client *casdoorsdk.Client
	db     *gorm.DB
	redis  *redis.Client
	config CasdoorConfig

	// Cache settings
	cachePrefix string
	cacheTTL    time.Duration
}

func NewUserCasdoor(config CasdoorConfig, db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &UserCasdoor{
		client:      client,
		db:          db,
		redis:       redisClient,
		config:      config,
		cachePrefix: "user:",
		cacheTTL:    15 * time.Minute,
	}
}

// ===== CACHE METHODS =====

func (u *UserCasdoor) getCacheKey(key string) string {
	return fmt.Sprintf("%s%s", u.cachePrefix, key)
}

func (u *UserCasdoor) getUserFromCache(ctx context.Context, key string) (*models.User, error) {
	if u.redis == nil {
		return nil, nil // Cache not available
	}

	cacheKey := u.getCacheKey(key)
	data, err := u.redis.Get(ctx, cacheKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Not found in cache
		}
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached user: %w", err)
	}

	return &user, nil
}

func (u *UserCasdoor) setUserCache(ctx context.Context, key string, user *models.User) error {
	if u.redis == nil {
		return nil // Cache not available
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user for cache: %w", err)
	}

	cacheKey := u.getCacheKey(key)
	return u.redis.Set(ctx, cacheKey, data, u.cacheTTL).Err()
}

func (u *UserCasdoor) dropUserCache(ctx context.Context, user *models.User) {
	if u.redis == nil || user == nil {
		return
	}
	u.redis.Del(ctx,
		u.getCacheKey(fmt.Sprintf("id:%s", user.ID)),
		u.getCacheKey(fmt.Sprintf("email:%s", user.Email)))
}

// ===== ROLE MAPPING =====

// MapCasdoorRole maps a Casdoor user type to an internal role. Anything
// unrecognized defaults to student.
func MapCasdoorRole(casdoorType string) models.UserRole {
	switch strings.ToLower(casdoorType) {
	case "admin", "administrator":
		return models.RoleAdmin
	case "teacher", "instructor", "educator":
		return models.RoleTeacher
	case "student", "learner":
		return models.RoleStudent
	default:
		return models.RoleStudent
	}
}

// ===== BASIC READ OPERATIONS =====

// GetByID retrieves a profile by user ID
func (u *UserCasdoor) GetByID(ctx context.Context, id string) (*models.User, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	if cachedUser, err := u.getUserFromCache(ctx, cacheKey); err == nil && cachedUser != nil {
		return cachedUser, nil
	}

	var user models.User
	if err := u.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	u.setUserCache(ctx, cacheKey, &user)
	u.setUserCache(ctx, fmt.Sprintf("email:%s", user.Email), &user)

	return &user, nil
}

// GetByEmail retrieves a profile by email
func (u *UserCasdoor) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	cacheKey := fmt.Sprintf("email:%s", email)
	if cachedUser, err := u.getUserFromCache(ctx, cacheKey); err == nil && cachedUser != nil {
		return cachedUser, nil
	}

	var user models.User
	if err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}

	u.setUserCache(ctx, cacheKey, &user)
	u.setUserCache(ctx, fmt.Sprintf("id:%s", user.ID), &user)

	return &user, nil
}

// List retrieves a paginated list of profiles, newest first
func (u *UserCasdoor) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	if filters.Limit <= 0 {
		filters.Limit = 10
	}
	if filters.Limit > 100 {
		filters.Limit = 100
	}

	query := u.db.WithContext(ctx).Model(&models.User{})
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	var users []*models.User
	if err := query.
		Order("created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}

	return users, total, nil
}

// ExistsByEmail checks if a profile exists by email
func (u *UserCasdoor) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	cacheKey := u.getCacheKey(fmt.Sprintf("exists:email:%s", email))
	if u.redis != nil {
		exists, err := u.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			return exists == "true", nil
		}
	}

	var count int64
	if err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check profile existence: %w", err)
	}

	exists := count > 0

	if u.redis != nil {
		u.redis.Set(ctx, cacheKey, fmt.Sprintf("%t", exists), 1*time.Minute)
	}

	return exists, nil
}

// HasRole checks if a user has a specific role
func (u *UserCasdoor) HasRole(ctx context.Context, id string, role models.UserRole) (bool, error) {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return role == user.Role, nil
}

// ===== PRIVILEGED IDENTITY MANAGEMENT =====

// Create provisions a Casdoor identity and the matching profile row. This is
// the single privileged creation path; there is deliberately no second
// transport for the same effect.
func (u *UserCasdoor) Create(ctx context.Context, user *models.User, password string) (*models.User, error) {
	exists, err := u.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("user with email %s already exists", user.Email)
	}

	name := user.Email
	if at := strings.IndexByte(name, '@'); at > 0 {
		name = name[:at]
	}

	casdoorUser := &casdoorsdk.User{
		Owner:       u.config.OrganizationName,
		Name:        name,
		DisplayName: user.FullName(),
		Email:       user.Email,
		Password:    password,
		Type:        string(user.Role),
		CreatedTime: time.Now().UTC().Format(time.RFC3339),
	}

	ok, err := u.client.AddUser(casdoorUser)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity in Casdoor: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("Casdoor rejected identity creation for %s", user.Email)
	}

	created, err := u.client.GetUserByEmail(user.Email)
	if err != nil || created == nil {
		return nil, fmt.Errorf("failed to read back created identity: %w", err)
	}

	user.ID = created.Id
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		// Roll the identity back so the two systems do not drift
		if _, delErr := u.client.DeleteUser(created); delErr != nil {
			return nil, fmt.Errorf("failed to create profile (identity rollback also failed: %v): %w", delErr, err)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	u.setUserCache(ctx, fmt.Sprintf("id:%s", user.ID), user)
	u.setUserCache(ctx, fmt.Sprintf("email:%s", user.Email), user)

	return user, nil
}

// Delete removes the profile row, then the Casdoor identity
func (u *UserCasdoor) Delete(ctx context.Context, id string) error {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := u.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	casdoorUser, err := u.client.GetUserByUserId(id)
	if err != nil {
		return fmt.Errorf("failed to look up identity in Casdoor: %w", err)
	}
	if casdoorUser != nil {
		if _, err := u.client.DeleteUser(casdoorUser); err != nil {
			return fmt.Errorf("failed to delete identity in Casdoor: %w", err)
		}
	}

	u.dropUserCache(ctx, user)

	return nil
}
