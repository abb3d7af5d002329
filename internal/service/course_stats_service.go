package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/elearnhq/elearn-api/internal/dto"
	"github.com/elearnhq/elearn-api/internal/repository"
)

// CourseStatsService computes a course's average rating and enrolled
// student count. Values are recomputed from the live rating and
// enrollment sets; the optional cache is invalidated on every rating and
// enrollment write, so a read following a write in the same request
// sequence always reflects it.
type CourseStatsService interface {
	Stats(ctx context.Context, courseID uint) (dto.CourseStats, error)
	Invalidate(ctx context.Context, courseID uint)
}

type courseStatsService struct {
	ratings     repository.RatingRepository
	enrollments repository.EnrollmentRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewCourseStatsService builds the aggregator. cache may be nil.
func NewCourseStatsService(ratings repository.RatingRepository, enrollments repository.EnrollmentRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) CourseStatsService {
	return &courseStatsService{
		ratings:     ratings,
		enrollments: enrollments,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "course_stats_service").Logger(),
	}
}

func statsCacheKey(courseID uint) string {
	return fmt.Sprintf("course:stats:%d", courseID)
}

func (s *courseStatsService) Stats(ctx context.Context, courseID uint) (dto.CourseStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, statsCacheKey(courseID)).Result(); err == nil {
			var stats dto.CourseStats
			if unmarshalErr := json.Unmarshal([]byte(cached), &stats); unmarshalErr == nil {
				return stats, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read stats cache")
		}
	}

	average, err := s.ratings.Average(ctx, courseID)
	if err != nil {
		return dto.CourseStats{}, err
	}

	count, err := s.enrollments.CountByCourse(ctx, courseID)
	if err != nil {
		return dto.CourseStats{}, err
	}

	stats := dto.CourseStats{
		AverageRating: roundToTwo(average),
		StudentCount:  count,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey(courseID), payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store stats cache")
			}
		}
	}

	return stats, nil
}

// Invalidate drops the cached stats for a course after a rating or
// enrollment write. Cache failures are logged, never surfaced: the next
// read recomputes from the database either way.
func (s *courseStatsService) Invalidate(ctx context.Context, courseID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey(courseID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("course_id", courseID).Msg("failed to invalidate stats cache")
	}
}

func roundToTwo(value float64) float64 {
	return math.Round(value*100) / 100
}
