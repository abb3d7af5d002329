package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/elearnhq/elearn-api/internal/models"
)

// CourseFilter narrows course listings. Numeric bounds are pointers so an
// absent filter and a zero value stay distinguishable.
type CourseFilter struct {
	Search       string
	CategoryID   *uint
	CategoryName string
	LevelName    string
	InstructorID *uint
	MinPrice     *float64
	MaxPrice     *float64
	MinRating    *float64
	Page         int
	PageSize     int
}

// CourseWithStats carries a course row plus the live rating/enrollment
// aggregates computed in the same query.
type CourseWithStats struct {
	models.Course
	AverageRating  float64 `json:"average_rating"`
	StudentCount   int64   `json:"student_count"`
	CategoryName   string  `json:"category_name"`
	LevelName      string  `json:"level_name"`
	InstructorName string  `json:"instructor_name"`
}

// CourseRepository defines data operations for courses.
type CourseRepository interface {
	List(ctx context.Context, filter CourseFilter) ([]CourseWithStats, int64, error)
	GetByID(ctx context.Context, id uint) (models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates the repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]CourseWithStats, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{}).
		Select("courses.*, " +
			"COALESCE(AVG(ratings.rating), 0) AS average_rating, " +
			"COUNT(DISTINCT enrollments.id) AS student_count, " +
			"COALESCE(categories.name, '') AS category_name, " +
			"COALESCE(levels.name, '') AS level_name, " +
			"COALESCE(users.username, '') AS instructor_name").
		Joins("LEFT JOIN ratings ON ratings.course_id = courses.id").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id").
		Joins("LEFT JOIN categories ON categories.id = courses.category_id").
		Joins("LEFT JOIN levels ON levels.id = courses.level_id").
		Joins("LEFT JOIN users ON users.id = courses.instructor_id").
		Group("courses.id, categories.name, levels.name, users.username")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(courses.title) LIKE LOWER(?) OR LOWER(courses.description) LIKE LOWER(?)", pattern, pattern)
	}
	if filter.CategoryID != nil {
		query = query.Where("courses.category_id = ?", *filter.CategoryID)
	}
	if filter.CategoryName != "" {
		query = query.Where("courses.category_id IN (?)",
			r.db.Model(&models.Category{}).Select("id").Where("LOWER(name) = LOWER(?)", filter.CategoryName))
	}
	if filter.LevelName != "" {
		query = query.Where("courses.level_id IN (?)",
			r.db.Model(&models.Level{}).Select("id").Where("LOWER(name) = LOWER(?)", filter.LevelName))
	}
	if filter.InstructorID != nil {
		query = query.Where("courses.instructor_id = ?", *filter.InstructorID)
	}
	if filter.MinPrice != nil {
		query = query.Where("courses.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("courses.price <= ?", *filter.MaxPrice)
	}
	if filter.MinRating != nil {
		query = query.Having("COALESCE(AVG(ratings.rating), 0) >= ?", *filter.MinRating)
	}

	var total int64
	countQuery := r.db.WithContext(ctx).Table("(?) AS filtered", query)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var courses []CourseWithStats
	if err := query.Order("courses.created_at DESC").Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Level").
		Preload("Instructor").
		First(&course, id).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return translateError(r.db.WithContext(ctx).Create(course).Error)
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return translateError(r.db.WithContext(ctx).Save(course).Error)
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Course{}, id).Error
}
