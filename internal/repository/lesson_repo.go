package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/elearnhq/elearn-api/internal/models"
)

// LessonRepository defines data operations for lessons.
type LessonRepository interface {
	ListByCourse(ctx context.Context, courseID uint, search string) ([]models.Lesson, error)
	GetByID(ctx context.Context, id uint) (models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id uint) error
}

type lessonRepository struct {
	db *gorm.DB
}

// NewLessonRepository instantiates the repository.
func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) ListByCourse(ctx context.Context, courseID uint, search string) ([]models.Lesson, error) {
	query := r.db.WithContext(ctx).Model(&models.Lesson{}).Where("course_id = ?", courseID)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	var lessons []models.Lesson
	if err := query.Order("created_at ASC").Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepository) GetByID(ctx context.Context, id uint) (models.Lesson, error) {
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).Preload("Course").First(&lesson, id).Error; err != nil {
		return models.Lesson{}, err
	}
	return lesson, nil
}

func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	return translateError(r.db.WithContext(ctx).Create(lesson).Error)
}

func (r *lessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	return translateError(r.db.WithContext(ctx).Save(lesson).Error)
}

func (r *lessonRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Lesson{}, id).Error
}

// LessonFileRepository defines data operations for lesson attachments.
type LessonFileRepository interface {
	ListByLesson(ctx context.Context, lessonID uint) ([]models.LessonFile, error)
	GetByID(ctx context.Context, id uint) (models.LessonFile, error)
	Create(ctx context.Context, file *models.LessonFile) error
	Delete(ctx context.Context, id uint) error
}

type lessonFileRepository struct {
	db *gorm.DB
}

// NewLessonFileRepository instantiates the repository.
func NewLessonFileRepository(db *gorm.DB) LessonFileRepository {
	return &lessonFileRepository{db: db}
}

func (r *lessonFileRepository) ListByLesson(ctx context.Context, lessonID uint) ([]models.LessonFile, error) {
	var files []models.LessonFile
	if err := r.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("uploaded_at DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *lessonFileRepository) GetByID(ctx context.Context, id uint) (models.LessonFile, error) {
	var file models.LessonFile
	if err := r.db.WithContext(ctx).First(&file, id).Error; err != nil {
		return models.LessonFile{}, err
	}
	return file, nil
}

func (r *lessonFileRepository) Create(ctx context.Context, file *models.LessonFile) error {
	return translateError(r.db.WithContext(ctx).Create(file).Error)
}

func (r *lessonFileRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.LessonFile{}, id).Error
}
