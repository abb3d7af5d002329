package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/elearnhq/elearn-api/internal/authz"
	"github.com/elearnhq/elearn-api/internal/dto"
	"github.com/elearnhq/elearn-api/internal/models"
	"github.com/elearnhq/elearn-api/internal/repository"
)

// RatingService manages course ratings. Ratings require an enrollment at
// write time, are unique per (user, course), and can never be deleted.
type RatingService interface {
	List(ctx context.Context, courseID uint) ([]dto.RatingResponse, error)
	Get(ctx context.Context, courseID, ratingID uint) (dto.RatingResponse, error)
	Create(ctx context.Context, identity authz.Identity, courseID uint, payload dto.RatingCreateRequest) (dto.RatingResponse, error)
	Update(ctx context.Context, identity authz.Identity, courseID, ratingID uint, payload dto.RatingUpdateRequest) (dto.RatingResponse, error)
}

type ratingService struct {
	ratings     repository.RatingRepository
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	stats       CourseStatsService
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewRatingService constructs a RatingService instance.
func NewRatingService(ratingRepo repository.RatingRepository, enrollmentRepo repository.EnrollmentRepository, courseRepo repository.CourseRepository, stats CourseStatsService, validate *validator.Validate, logger zerolog.Logger) RatingService {
	return &ratingService{
		ratings:     ratingRepo,
		enrollments: enrollmentRepo,
		courses:     courseRepo,
		stats:       stats,
		validator:   validate,
		logger:      logger.With().Str("component", "rating_service").Logger(),
		now:         time.Now,
	}
}

func (s *ratingService) List(ctx context.Context, courseID uint) ([]dto.RatingResponse, error) {
	if err := s.courseExists(ctx, courseID); err != nil {
		return nil, err
	}
	ratings, err := s.ratings.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return dto.NewRatingResponseSlice(ratings), nil
}

func (s *ratingService) Get(ctx context.Context, courseID, ratingID uint) (dto.RatingResponse, error) {
	rating, err := s.loadForCourse(ctx, courseID, ratingID)
	if err != nil {
		return dto.RatingResponse{}, err
	}
	return dto.NewRatingResponse(rating), nil
}

func (s *ratingService) Create(ctx context.Context, identity authz.Identity, courseID uint, payload dto.RatingCreateRequest) (dto.RatingResponse, error) {
	if identity.Anonymous() {
		return dto.RatingResponse{}, authz.ErrUnauthenticated
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.RatingResponse{}, err
	}
	if err := validateRatingPrecision(*payload.Rating); err != nil {
		return dto.RatingResponse{}, err
	}
	if err := s.courseExists(ctx, courseID); err != nil {
		return dto.RatingResponse{}, err
	}

	enrolled, err := s.enrollments.Exists(ctx, identity.UserID, courseID)
	if err != nil {
		return dto.RatingResponse{}, err
	}
	if !enrolled {
		return dto.RatingResponse{}, ErrNotEnrolled
	}

	rated, err := s.ratings.Exists(ctx, identity.UserID, courseID)
	if err != nil {
		return dto.RatingResponse{}, err
	}
	if rated {
		return dto.RatingResponse{}, ErrAlreadyRated
	}

	rating := models.Rating{
		UserID:   identity.UserID,
		CourseID: courseID,
		Rating:   *payload.Rating,
		Comment:  payload.Comment,
	}

	if err := s.ratings.Create(ctx, &rating); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.RatingResponse{}, ErrAlreadyRated
		}
		return dto.RatingResponse{}, err
	}

	s.stats.Invalidate(ctx, courseID)

	created, err := s.ratings.GetByID(ctx, rating.ID)
	if err != nil {
		return dto.RatingResponse{}, err
	}

	s.logger.Info().Uint("rating_id", created.ID).Uint("course_id", courseID).Msg("rating created")
	return dto.NewRatingResponse(created), nil
}

// Update allows the rating's author to revise it, provided the
// enrollment still exists at update time.
func (s *ratingService) Update(ctx context.Context, identity authz.Identity, courseID, ratingID uint, payload dto.RatingUpdateRequest) (dto.RatingResponse, error) {
	if identity.Anonymous() {
		return dto.RatingResponse{}, authz.ErrUnauthenticated
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.RatingResponse{}, err
	}
	if payload.Rating != nil {
		if err := validateRatingPrecision(*payload.Rating); err != nil {
			return dto.RatingResponse{}, err
		}
	}

	rating, err := s.loadForCourse(ctx, courseID, ratingID)
	if err != nil {
		return dto.RatingResponse{}, err
	}
	if rating.UserID != identity.UserID {
		return dto.RatingResponse{}, authz.ErrForbidden
	}

	enrolled, err := s.enrollments.Exists(ctx, identity.UserID, courseID)
	if err != nil {
		return dto.RatingResponse{}, err
	}
	if !enrolled {
		return dto.RatingResponse{}, ErrNotEnrolled
	}

	if payload.Rating != nil {
		rating.Rating = *payload.Rating
	}
	if payload.Comment != nil {
		rating.Comment = *payload.Comment
	}

	if err := s.ratings.Update(ctx, &rating); err != nil {
		return dto.RatingResponse{}, err
	}

	s.stats.Invalidate(ctx, courseID)

	s.logger.Info().Uint("rating_id", rating.ID).Msg("rating updated")
	return dto.NewRatingResponse(rating), nil
}

func (s *ratingService) courseExists(ctx context.Context, courseID uint) error {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	return nil
}

func (s *ratingService) loadForCourse(ctx context.Context, courseID, ratingID uint) (models.Rating, error) {
	rating, err := s.ratings.GetByID(ctx, ratingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Rating{}, ErrRatingNotFound
		}
		return models.Rating{}, err
	}
	if rating.CourseID != courseID {
		return models.Rating{}, ErrRatingNotFound
	}
	return rating, nil
}

// validateRatingPrecision enforces at most one decimal place, e.g. 4.5.
// Values are compared against their nearest tenth with a tolerance so that
// representation noise (3.3 arriving as 3.3000000000000003) is not rejected.
func validateRatingPrecision(value float64) error {
	scaled := value * 10
	if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
		return NewValidationError("rating must have at most one decimal place")
	}
	return nil
}
