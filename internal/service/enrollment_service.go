package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/elearnhq/elearn-api/internal/authz"
	"github.com/elearnhq/elearn-api/internal/dto"
	"github.com/elearnhq/elearn-api/internal/models"
	"github.com/elearnhq/elearn-api/internal/repository"
)

// EnrollmentService manages course enrollments. Creation is idempotent:
// repeated requests for the same (student, course) converge on one row.
type EnrollmentService interface {
	Enroll(ctx context.Context, identity authz.Identity, courseID uint) (dto.EnrollResult, error)
	List(ctx context.Context, identity authz.Identity, courseID uint) ([]dto.EnrollmentResponse, error)
	Get(ctx context.Context, identity authz.Identity, courseID, enrollmentID uint) (dto.EnrollmentResponse, error)
	Update(ctx context.Context, identity authz.Identity, courseID, enrollmentID uint, payload dto.EnrollmentUpdateRequest) (dto.EnrollmentResponse, error)
	Delete(ctx context.Context, identity authz.Identity, courseID, enrollmentID uint) error
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	users       repository.UserRepository
	stats       CourseStatsService
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(enrollmentRepo repository.EnrollmentRepository, courseRepo repository.CourseRepository, userRepo repository.UserRepository, stats CourseStatsService, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollmentRepo,
		courses:     courseRepo,
		users:       userRepo,
		stats:       stats,
		validator:   validate,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
		now:         time.Now,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, identity authz.Identity, courseID uint) (dto.EnrollResult, error) {
	if identity.Anonymous() {
		return dto.EnrollResult{}, authz.ErrUnauthenticated
	}

	// A valid token may outlive its account; reject enrollments for
	// accounts that were since removed or deactivated.
	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollResult{}, authz.ErrUnauthenticated
		}
		return dto.EnrollResult{}, err
	}
	if !user.IsActive {
		return dto.EnrollResult{}, authz.ErrUnauthenticated
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollResult{}, ErrCourseNotFound
		}
		return dto.EnrollResult{}, err
	}

	if course.OwnedBy(identity.UserID) {
		return dto.EnrollResult{}, ErrSelfEnroll
	}

	enrollment, created, err := s.enrollments.GetOrCreate(ctx, identity.UserID, courseID)
	if err != nil {
		return dto.EnrollResult{}, err
	}

	if created {
		s.stats.Invalidate(ctx, courseID)
		s.logger.Info().
			Uint("enrollment_id", enrollment.ID).
			Uint("course_id", courseID).
			Msg("student enrolled")
	}

	return dto.EnrollResult{
		Enrollment: dto.NewEnrollmentResponse(enrollment),
		Created:    created,
	}, nil
}

// List scopes results by role: students see their own enrollments,
// instructors see enrollments under courses they own.
func (s *enrollmentService) List(ctx context.Context, identity authz.Identity, courseID uint) ([]dto.EnrollmentResponse, error) {
	if identity.Anonymous() {
		return nil, authz.ErrUnauthenticated
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if identity.IsInstructor() {
		enrollments, err := s.enrollments.ListByInstructor(ctx, courseID, identity.UserID)
		if err != nil {
			return nil, err
		}
		return dto.NewEnrollmentResponseSlice(enrollments), nil
	}

	enrollments, err := s.enrollments.ListByStudent(ctx, courseID, identity.UserID)
	if err != nil {
		return nil, err
	}
	return dto.NewEnrollmentResponseSlice(enrollments), nil
}

func (s *enrollmentService) Get(ctx context.Context, identity authz.Identity, courseID, enrollmentID uint) (dto.EnrollmentResponse, error) {
	enrollment, course, err := s.load(ctx, courseID, enrollmentID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}
	if err := authz.CanTouchEnrollment(identity, authz.ActionRead, enrollment, course); err != nil {
		return dto.EnrollmentResponse{}, err
	}
	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) Update(ctx context.Context, identity authz.Identity, courseID, enrollmentID uint, payload dto.EnrollmentUpdateRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	enrollment, course, err := s.load(ctx, courseID, enrollmentID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}
	if err := authz.CanTouchEnrollment(identity, authz.ActionUpdate, enrollment, course); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	if payload.Progress != nil {
		enrollment.Progress = *payload.Progress
	}
	if payload.Completed != nil {
		enrollment.Completed = *payload.Completed
	}

	if err := s.enrollments.Update(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	s.logger.Info().Uint("enrollment_id", enrollment.ID).Msg("enrollment updated")
	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) Delete(ctx context.Context, identity authz.Identity, courseID, enrollmentID uint) error {
	enrollment, course, err := s.load(ctx, courseID, enrollmentID)
	if err != nil {
		return err
	}
	if err := authz.CanTouchEnrollment(identity, authz.ActionDelete, enrollment, course); err != nil {
		return err
	}

	if err := s.enrollments.Delete(ctx, enrollmentID); err != nil {
		return err
	}

	s.stats.Invalidate(ctx, courseID)
	s.logger.Info().Uint("enrollment_id", enrollmentID).Msg("enrollment deleted")
	return nil
}

// load fetches the enrollment and its course, verifying the enrollment
// actually belongs to the course named in the route.
func (s *enrollmentService) load(ctx context.Context, courseID, enrollmentID uint) (models.Enrollment, models.Course, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Enrollment{}, models.Course{}, ErrEnrollmentNotFound
		}
		return models.Enrollment{}, models.Course{}, err
	}
	if enrollment.CourseID != courseID {
		return models.Enrollment{}, models.Course{}, ErrEnrollmentNotFound
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Enrollment{}, models.Course{}, ErrCourseNotFound
		}
		return models.Enrollment{}, models.Course{}, err
	}
	return enrollment, course, nil
}
