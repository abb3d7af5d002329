package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/elearnhq/elearn-api/internal/authz"
	"github.com/elearnhq/elearn-api/internal/dto"
	"github.com/elearnhq/elearn-api/internal/models"
	"github.com/elearnhq/elearn-api/internal/repository"
)

// CatalogService manages categories and levels. Reads are public,
// writes are restricted to instructors.
type CatalogService interface {
	ListCategories(ctx context.Context, search string) ([]dto.CategoryResponse, error)
	GetCategory(ctx context.Context, id uint) (dto.CategoryResponse, error)
	CreateCategory(ctx context.Context, identity authz.Identity, payload dto.CategoryRequest) (dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, identity authz.Identity, id uint, payload dto.CategoryRequest) (dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, identity authz.Identity, id uint) error

	ListLevels(ctx context.Context, search string) ([]dto.LevelResponse, error)
	GetLevel(ctx context.Context, id uint) (dto.LevelResponse, error)
	CreateLevel(ctx context.Context, identity authz.Identity, payload dto.LevelRequest) (dto.LevelResponse, error)
	UpdateLevel(ctx context.Context, identity authz.Identity, id uint, payload dto.LevelRequest) (dto.LevelResponse, error)
	DeleteLevel(ctx context.Context, identity authz.Identity, id uint) error
}

type catalogService struct {
	categories repository.CategoryRepository
	levels     repository.LevelRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewCatalogService constructs a CatalogService instance.
func NewCatalogService(categoryRepo repository.CategoryRepository, levelRepo repository.LevelRepository, validate *validator.Validate, logger zerolog.Logger) CatalogService {
	return &catalogService{
		categories: categoryRepo,
		levels:     levelRepo,
		validator:  validate,
		logger:     logger.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *catalogService) ListCategories(ctx context.Context, search string) ([]dto.CategoryResponse, error) {
	categories, err := s.categories.List(ctx, search)
	if err != nil {
		return nil, err
	}
	return dto.NewCategoryResponseSlice(categories), nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uint) (dto.CategoryResponse, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoryResponse{}, ErrCategoryNotFound
		}
		return dto.CategoryResponse{}, err
	}
	return dto.NewCategoryResponse(category), nil
}

func (s *catalogService) CreateCategory(ctx context.Context, identity authz.Identity, payload dto.CategoryRequest) (dto.CategoryResponse, error) {
	if err := authz.CanMutateCatalog(identity); err != nil {
		return dto.CategoryResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.CategoryResponse{}, err
	}

	category := models.Category{Name: payload.Name, Description: payload.Description}
	if err := s.categories.Create(ctx, &category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.CategoryResponse{}, NewValidationError("category %q already exists", payload.Name)
		}
		return dto.CategoryResponse{}, err
	}

	s.logger.Info().Uint("category_id", category.ID).Msg("category created")
	return dto.NewCategoryResponse(category), nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, identity authz.Identity, id uint, payload dto.CategoryRequest) (dto.CategoryResponse, error) {
	if err := authz.CanMutateCatalog(identity); err != nil {
		return dto.CategoryResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.CategoryResponse{}, err
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoryResponse{}, ErrCategoryNotFound
		}
		return dto.CategoryResponse{}, err
	}

	category.Name = payload.Name
	category.Description = payload.Description
	if err := s.categories.Update(ctx, &category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.CategoryResponse{}, NewValidationError("category %q already exists", payload.Name)
		}
		return dto.CategoryResponse{}, err
	}

	return dto.NewCategoryResponse(category), nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, identity authz.Identity, id uint) error {
	if err := authz.CanMutateCatalog(identity); err != nil {
		return err
	}
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("category_id", id).Msg("category deleted")
	return nil
}

func (s *catalogService) ListLevels(ctx context.Context, search string) ([]dto.LevelResponse, error) {
	levels, err := s.levels.List(ctx, search)
	if err != nil {
		return nil, err
	}
	return dto.NewLevelResponseSlice(levels), nil
}

func (s *catalogService) GetLevel(ctx context.Context, id uint) (dto.LevelResponse, error) {
	level, err := s.levels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LevelResponse{}, ErrLevelNotFound
		}
		return dto.LevelResponse{}, err
	}
	return dto.NewLevelResponse(level), nil
}

func (s *catalogService) CreateLevel(ctx context.Context, identity authz.Identity, payload dto.LevelRequest) (dto.LevelResponse, error) {
	if err := authz.CanMutateCatalog(identity); err != nil {
		return dto.LevelResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.LevelResponse{}, err
	}

	level := models.Level{Name: payload.Name, Description: payload.Description}
	if err := s.levels.Create(ctx, &level); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.LevelResponse{}, NewValidationError("level %q already exists", payload.Name)
		}
		return dto.LevelResponse{}, err
	}

	s.logger.Info().Uint("level_id", level.ID).Msg("level created")
	return dto.NewLevelResponse(level), nil
}

func (s *catalogService) UpdateLevel(ctx context.Context, identity authz.Identity, id uint, payload dto.LevelRequest) (dto.LevelResponse, error) {
	if err := authz.CanMutateCatalog(identity); err != nil {
		return dto.LevelResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.LevelResponse{}, err
	}

	level, err := s.levels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LevelResponse{}, ErrLevelNotFound
		}
		return dto.LevelResponse{}, err
	}

	level.Name = payload.Name
	level.Description = payload.Description
	if err := s.levels.Update(ctx, &level); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.LevelResponse{}, NewValidationError("level %q already exists", payload.Name)
		}
		return dto.LevelResponse{}, err
	}

	return dto.NewLevelResponse(level), nil
}

func (s *catalogService) DeleteLevel(ctx context.Context, identity authz.Identity, id uint) error {
	if err := authz.CanMutateCatalog(identity); err != nil {
		return err
	}
	if _, err := s.levels.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLevelNotFound
		}
		return err
	}

	if err := s.levels.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("level_id", id).Msg("level deleted")
	return nil
}
