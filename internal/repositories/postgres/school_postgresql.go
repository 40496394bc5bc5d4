package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-directory/internal/cache"
	"github.com/SAP-F-2025/school-directory/internal/models"
	"github.com/SAP-F-2025/school-directory/internal/repositories"
)

type SchoolPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSchoolPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.SchoolRepository {
	return &SchoolPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// List retrieves all schools ordered by id descending, served from the versioned list cache when possible
func (s *SchoolPostgreSQL) List(ctx context.Context) ([]models.School, error) {
	key, err := s.cacheManager.SchoolListKey(ctx)
	if err != nil {
		return s.listFromDB(ctx)
	}

	var schools []models.School
	err = s.cacheManager.School.CacheOrExecute(ctx, key, &schools, cache.SchoolCacheConfig.TTL, func() (interface{}, error) {
		return s.listFromDB(ctx)
	})
	if err != nil {
		return nil, err
	}
	if schools == nil {
		schools = []models.School{}
	}

	return schools, nil
}

func (s *SchoolPostgreSQL) listFromDB(ctx context.Context) ([]models.School, error) {
	schools := make([]models.School, 0)
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&schools).Error; err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	return schools, nil
}

// Create inserts a school and invalidates the list cache
func (s *SchoolPostgreSQL) Create(ctx context.Context, school *models.School) error {
	if err := s.db.WithContext(ctx).Create(school).Error; err != nil {
		return fmt.Errorf("failed to create school: %w", err)
	}

	// The row is committed; the cache must follow even if the caller has gone away
	cache.InvalidateSchoolCache(context.WithoutCancel(ctx), s.cacheManager)

	return nil
}
