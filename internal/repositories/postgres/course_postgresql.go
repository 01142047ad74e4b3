package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-platform/internal/cache"
	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/repositories"
)

var ErrCourseNotFound = fmt.Errorf("course %w", repositories.ErrNotFound)

type CoursePostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (r *CoursePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts a course and invalidates the catalog cache
func (r *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, r.cacheManager, course.ID, course.TeacherID)

	return nil
}

// GetByID retrieves a course by ID with caching
func (r *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var course models.Course

	err := r.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		err := r.getDB(tx).WithContext(ctx).First(&dbCourse, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCourseNotFound
			}
			return nil, fmt.Errorf("failed to get course: %w", err)
		}
		return &dbCourse, nil
	})

	if err != nil {
		return nil, err
	}

	return &course, nil
}

// Update updates a course and invalidates cache
func (r *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := r.getDB(tx)

	result := db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", course.ID).Updates(map[string]interface{}{
		"title":        course.Title,
		"description":  course.Description,
		"category":     course.Category,
		"difficulty":   course.Difficulty,
		"max_students": course.MaxStudents,
		"start_date":   course.StartDate,
		"end_date":     course.EndDate,
		"course_code":  course.CourseCode,
		"is_published": course.IsPublished,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}

	cache.InvalidateCourseCache(ctx, r.cacheManager, course.ID, course.TeacherID)

	return nil
}

// Delete soft-deletes a course. Deleting an absent id is not an error; the
// caller observes the same success it would for a real delete.
func (r *CoursePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)

	if err := db.WithContext(ctx).Delete(&models.Course{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	cache.InvalidateCourseCache(ctx, r.cacheManager, id, "")

	return nil
}

// List retrieves courses with filters, newest first by default
func (r *CoursePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	db := r.getDB(tx)

	query := db.WithContext(ctx).Model(&models.Course{})
	query = r.helpers.ApplyCourseFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	query = r.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var courses []*models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	return courses, total, nil
}

// ExistsByCode checks whether a course code is already taken
func (r *CoursePostgreSQL) ExistsByCode(ctx context.Context, tx *gorm.DB, code string, excludeID *uint) (bool, error) {
	db := r.getDB(tx)

	query := db.WithContext(ctx).Model(&models.Course{}).Where("course_code = ?", code)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check course code: %w", err)
	}

	return count > 0, nil
}
