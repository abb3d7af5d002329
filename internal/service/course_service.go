package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/elearnhq/elearn-api/internal/authz"
	"github.com/elearnhq/elearn-api/internal/dto"
	"github.com/elearnhq/elearn-api/internal/models"
	"github.com/elearnhq/elearn-api/internal/repository"
)

const defaultCoursePageSize = 20

// CourseService manages the course catalog. Listing and retrieval are
// public; writes are restricted to the owning instructor.
type CourseService interface {
	List(ctx context.Context, req dto.CourseListRequest) (dto.CourseListResponse, error)
	Get(ctx context.Context, id uint) (dto.CourseResponse, error)
	Create(ctx context.Context, identity authz.Identity, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, identity authz.Identity, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, identity authz.Identity, id uint) error
}

type courseService struct {
	courses    repository.CourseRepository
	categories repository.CategoryRepository
	levels     repository.LevelRepository
	stats      CourseStatsService
	validator  *validator.Validate
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
	now        func() time.Time
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(courseRepo repository.CourseRepository, categoryRepo repository.CategoryRepository, levelRepo repository.LevelRepository, stats CourseStatsService, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:    courseRepo,
		categories: categoryRepo,
		levels:     levelRepo,
		stats:      stats,
		validator:  validate,
		sanitizer:  bluemonday.UGCPolicy(),
		logger:     logger.With().Str("component", "course_service").Logger(),
		now:        time.Now,
	}
}

func (s *courseService) List(ctx context.Context, req dto.CourseListRequest) (dto.CourseListResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CourseListResponse{}, err
	}

	filter := repository.CourseFilter{
		Search:       req.Search,
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
		LevelName:    req.LevelName,
		InstructorID: req.InstructorID,
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		MinRating:    req.MinRating,
		Page:         req.Page,
		PageSize:     req.PageSize,
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultCoursePageSize
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	rows, total, err := s.courses.List(ctx, filter)
	if err != nil {
		return dto.CourseListResponse{}, err
	}

	items := make([]dto.CourseResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.NewCourseResponseFromStats(row))
	}

	return dto.CourseListResponse{
		Items: items,
		Pagination: dto.Pagination{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalItems: total,
		},
	}, nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.load(ctx, id)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	stats, err := s.stats.Stats(ctx, id)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course, stats), nil
}

func (s *courseService) Create(ctx context.Context, identity authz.Identity, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := authz.CanMutateCourse(identity, authz.ActionCreate, nil); err != nil {
		return dto.CourseResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}
	if err := s.checkReferences(ctx, payload.CategoryID, payload.LevelID); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Title:        payload.Title,
		Description:  s.sanitizer.Sanitize(payload.Description),
		Price:        payload.Price,
		CategoryID:   payload.CategoryID,
		LevelID:      payload.LevelID,
		InstructorID: identity.UserID,
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	created, err := s.load(ctx, course.ID)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", created.ID).Uint("instructor_id", identity.UserID).Msg("course created")
	return dto.NewCourseResponse(created, dto.CourseStats{}), nil
}

func (s *courseService) Update(ctx context.Context, identity authz.Identity, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	course, err := s.load(ctx, id)
	if err != nil {
		return dto.CourseResponse{}, err
	}
	if err := authz.CanMutateCourse(identity, authz.ActionUpdate, &course); err != nil {
		return dto.CourseResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}
	if err := s.checkReferences(ctx, payload.CategoryID, payload.LevelID); err != nil {
		return dto.CourseResponse{}, err
	}

	if payload.Title != nil {
		course.Title = *payload.Title
	}
	if payload.Description != nil {
		course.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.Price != nil {
		course.Price = *payload.Price
	}
	if payload.CategoryID != nil {
		course.CategoryID = payload.CategoryID
	}
	if payload.LevelID != nil {
		course.LevelID = payload.LevelID
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	updated, err := s.load(ctx, course.ID)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	stats, err := s.stats.Stats(ctx, id)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", updated.ID).Msg("course updated")
	return dto.NewCourseResponse(updated, stats), nil
}

func (s *courseService) Delete(ctx context.Context, identity authz.Identity, id uint) error {
	course, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanMutateCourse(identity, authz.ActionDelete, &course); err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}

	s.stats.Invalidate(ctx, id)

	s.logger.Info().Uint("course_id", id).Msg("course deleted")
	return nil
}

func (s *courseService) load(ctx context.Context, id uint) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}
	return course, nil
}

// checkReferences verifies the optional category and level exist before a
// course is linked to them.
func (s *courseService) checkReferences(ctx context.Context, categoryID, levelID *uint) error {
	if categoryID != nil {
		if _, err := s.categories.GetByID(ctx, *categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
	}
	if levelID != nil {
		if _, err := s.levels.GetByID(ctx, *levelID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLevelNotFound
			}
			return err
		}
	}
	return nil
}
