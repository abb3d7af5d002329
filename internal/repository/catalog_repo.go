package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/elearnhq/elearn-api/internal/models"
)

// CategoryRepository defines data operations for course categories.
type CategoryRepository interface {
	List(ctx context.Context, search string) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository instantiates the repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context, search string) ([]models.Category, error) {
	query := r.db.WithContext(ctx).Model(&models.Category{})
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+search+"%")
	}

	var categories []models.Category
	if err := query.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return translateError(r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	return translateError(r.db.WithContext(ctx).Save(category).Error)
}

// Delete removes the category. Course references are nulled by the SET
// NULL constraint rather than cascading.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, id).Error
}

// LevelRepository defines data operations for course levels.
type LevelRepository interface {
	List(ctx context.Context, search string) ([]models.Level, error)
	GetByID(ctx context.Context, id uint) (models.Level, error)
	Create(ctx context.Context, level *models.Level) error
	Update(ctx context.Context, level *models.Level) error
	Delete(ctx context.Context, id uint) error
}

type levelRepository struct {
	db *gorm.DB
}

// NewLevelRepository instantiates the repository.
func NewLevelRepository(db *gorm.DB) LevelRepository {
	return &levelRepository{db: db}
}

func (r *levelRepository) List(ctx context.Context, search string) ([]models.Level, error) {
	query := r.db.WithContext(ctx).Model(&models.Level{})
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+search+"%")
	}

	var levels []models.Level
	if err := query.Order("name ASC").Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *levelRepository) GetByID(ctx context.Context, id uint) (models.Level, error) {
	var level models.Level
	if err := r.db.WithContext(ctx).First(&level, id).Error; err != nil {
		return models.Level{}, err
	}
	return level, nil
}

func (r *levelRepository) Create(ctx context.Context, level *models.Level) error {
	return translateError(r.db.WithContext(ctx).Create(level).Error)
}

func (r *levelRepository) Update(ctx context.Context, level *models.Level) error {
	return translateError(r.db.WithContext(ctx).Save(level).Error)
}

func (r *levelRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Level{}, id).Error
}
