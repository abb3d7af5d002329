package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/elearnhq/elearn-api/internal/models"
)

func TestCourseStatsAggregates(t *testing.T) {
	courses := newStubCourseRepo(models.Course{ID: 1, InstructorID: 50})
	enrollments := newStubEnrollmentRepo(courses)
	ratings := newStubRatingRepo()

	_, _, err := enrollments.GetOrCreate(context.Background(), 100, 1)
	require.NoError(t, err)
	_, _, err = enrollments.GetOrCreate(context.Background(), 101, 1)
	require.NoError(t, err)

	require.NoError(t, ratings.Create(context.Background(), &models.Rating{UserID: 100, CourseID: 1, Rating: 4.0}))
	require.NoError(t, ratings.Create(context.Background(), &models.Rating{UserID: 101, CourseID: 1, Rating: 5.0}))

	svc := NewCourseStatsService(ratings, enrollments, nil, time.Minute, zerolog.Nop())

	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 4.5, stats.AverageRating)
	require.Equal(t, int64(2), stats.StudentCount)
}

func TestCourseStatsZeroWithoutRatings(t *testing.T) {
	courses := newStubCourseRepo(models.Course{ID: 1, InstructorID: 50})
	svc := NewCourseStatsService(newStubRatingRepo(), newStubEnrollmentRepo(courses), nil, time.Minute, zerolog.Nop())

	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 0.0, stats.AverageRating)
	require.Equal(t, int64(0), stats.StudentCount)
}

func TestCourseStatsRoundsAverage(t *testing.T) {
	courses := newStubCourseRepo(models.Course{ID: 1, InstructorID: 50})
	ratings := newStubRatingRepo()
	require.NoError(t, ratings.Create(context.Background(), &models.Rating{UserID: 100, CourseID: 1, Rating: 4.0}))
	require.NoError(t, ratings.Create(context.Background(), &models.Rating{UserID: 101, CourseID: 1, Rating: 4.0}))
	require.NoError(t, ratings.Create(context.Background(), &models.Rating{UserID: 102, CourseID: 1, Rating: 5.0}))

	svc := NewCourseStatsService(ratings, newStubEnrollmentRepo(courses), nil, time.Minute, zerolog.Nop())

	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 4.33, stats.AverageRating)
}

func TestCourseStatsCacheInvalidation(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	courses := newStubCourseRepo(models.Course{ID: 1, InstructorID: 50})
	enrollments := newStubEnrollmentRepo(courses)
	ratings := newStubRatingRepo()
	require.NoError(t, ratings.Create(context.Background(), &models.Rating{UserID: 100, CourseID: 1, Rating: 4.0}))

	svc := NewCourseStatsService(ratings, enrollments, client, time.Minute, zerolog.Nop())

	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 4.0, stats.AverageRating)
	require.True(t, server.Exists("course:stats:1"))

	// a write without invalidation keeps serving the cached value
	require.NoError(t, ratings.Create(context.Background(), &models.Rating{UserID: 101, CourseID: 1, Rating: 5.0}))
	stats, err = svc.Stats(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 4.0, stats.AverageRating)

	// invalidation forces a recompute on the next read
	svc.Invalidate(context.Background(), 1)
	require.False(t, server.Exists("course:stats:1"))

	stats, err = svc.Stats(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 4.5, stats.AverageRating)
}
