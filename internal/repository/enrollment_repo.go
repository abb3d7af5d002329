package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/elearnhq/elearn-api/internal/models"
)

// EnrollmentRepository defines data operations for enrollments.
type EnrollmentRepository interface {
	// GetOrCreate returns the enrollment for (studentID, courseID),
	// creating it when absent. The lookup and insert run in a single
	// transaction so concurrent duplicate requests converge on one row.
	GetOrCreate(ctx context.Context, studentID, courseID uint) (models.Enrollment, bool, error)
	GetByID(ctx context.Context, id uint) (models.Enrollment, error)
	Exists(ctx context.Context, studentID, courseID uint) (bool, error)
	ListByStudent(ctx context.Context, courseID, studentID uint) ([]models.Enrollment, error)
	ListByInstructor(ctx context.Context, courseID, instructorID uint) ([]models.Enrollment, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id uint) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates the repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) GetOrCreate(ctx context.Context, studentID, courseID uint) (models.Enrollment, bool, error) {
	var enrollment models.Enrollment
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("student_id = ? AND course_id = ?", studentID, courseID).
			First(&enrollment).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		enrollment = models.Enrollment{StudentID: studentID, CourseID: courseID}
		if createErr := tx.Create(&enrollment).Error; createErr != nil {
			// lost the race: another request inserted the row first
			if errors.Is(translateError(createErr), ErrDuplicate) {
				return tx.Where("student_id = ? AND course_id = ?", studentID, courseID).
					First(&enrollment).Error
			}
			return createErr
		}
		created = true
		return nil
	})
	if err != nil {
		return models.Enrollment{}, false, err
	}
	return enrollment, created, nil
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		First(&enrollment, id).Error; err != nil {
		return models.Enrollment{}, err
	}
	return enrollment, nil
}

func (r *enrollmentRepository) Exists(ctx context.Context, studentID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepository) ListByStudent(ctx context.Context, courseID, studentID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

// ListByInstructor returns enrollments for the course only when the
// instructor owns it; a course owned by someone else yields no rows.
func (r *enrollmentRepository) ListByInstructor(ctx context.Context, courseID, instructorID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.course_id = ? AND courses.instructor_id = ?", courseID, instructorID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *enrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	return translateError(r.db.WithContext(ctx).Save(enrollment).Error)
}

func (r *enrollmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Enrollment{}, id).Error
}
