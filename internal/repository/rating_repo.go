package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/elearnhq/elearn-api/internal/models"
)

// RatingRepository defines data operations for course ratings.
type RatingRepository interface {
	ListByCourse(ctx context.Context, courseID uint) ([]models.Rating, error)
	GetByID(ctx context.Context, id uint) (models.Rating, error)
	Exists(ctx context.Context, userID, courseID uint) (bool, error)
	Average(ctx context.Context, courseID uint) (float64, error)
	Create(ctx context.Context, rating *models.Rating) error
	Update(ctx context.Context, rating *models.Rating) error
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository instantiates the repository.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *ratingRepository) GetByID(ctx context.Context, id uint) (models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).Preload("User").First(&rating, id).Error; err != nil {
		return models.Rating{}, err
	}
	return rating, nil
}

func (r *ratingRepository) Exists(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// Average computes the live arithmetic mean of the course's ratings;
// zero when the course has none.
func (r *ratingRepository) Average(ctx context.Context, courseID uint) (float64, error) {
	var average float64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&average).Error
	return average, err
}

func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	return translateError(r.db.WithContext(ctx).Create(rating).Error)
}

func (r *ratingRepository) Update(ctx context.Context, rating *models.Rating) error {
	return translateError(r.db.WithContext(ctx).Save(rating).Error)
}
