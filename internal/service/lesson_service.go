package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/elearnhq/elearn-api/internal/authz"
	"github.com/elearnhq/elearn-api/internal/dto"
	"github.com/elearnhq/elearn-api/internal/models"
	"github.com/elearnhq/elearn-api/internal/repository"
)

// maxLessonFileBytes caps lesson attachment uploads at 50 MiB.
const maxLessonFileBytes = 50 << 20

// allowedLessonFileTypes whitelists attachment MIME types by detected
// content, not by the client-supplied extension.
var allowedLessonFileTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/zip":    {},
	"image/jpeg":         {},
	"image/png":          {},
	"image/gif":          {},
	"image/webp":         {},
	"video/mp4":          {},
	"video/webm":         {},
	"audio/mpeg":         {},
	"text/plain":         {},
	"text/csv":           {},
	"text/html":          {},
	"text/markdown":      {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
}

// FileUploader stores lesson attachments and returns a public URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// LessonService manages lessons and their attachments. Reads are gated:
// callers without access to the course receive empty result sets so the
// content's existence is not revealed.
type LessonService interface {
	List(ctx context.Context, identity authz.Identity, courseID uint, search string) ([]dto.LessonResponse, error)
	Get(ctx context.Context, identity authz.Identity, courseID, lessonID uint) (dto.LessonResponse, error)
	Create(ctx context.Context, identity authz.Identity, courseID uint, payload dto.LessonCreateRequest) (dto.LessonResponse, error)
	Update(ctx context.Context, identity authz.Identity, courseID, lessonID uint, payload dto.LessonUpdateRequest) (dto.LessonResponse, error)
	Delete(ctx context.Context, identity authz.Identity, courseID, lessonID uint) error

	ListFiles(ctx context.Context, identity authz.Identity, lessonID uint) ([]dto.LessonFileResponse, error)
	UploadFile(ctx context.Context, identity authz.Identity, lessonID uint, fileName string, reader io.Reader) (dto.LessonFileResponse, error)
	DeleteFile(ctx context.Context, identity authz.Identity, lessonID, fileID uint) error
}

type lessonService struct {
	lessons     repository.LessonRepository
	files       repository.LessonFileRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	uploader    FileUploader
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewLessonService constructs a LessonService instance.
func NewLessonService(lessonRepo repository.LessonRepository, fileRepo repository.LessonFileRepository, courseRepo repository.CourseRepository, enrollmentRepo repository.EnrollmentRepository, uploader FileUploader, validate *validator.Validate, logger zerolog.Logger) LessonService {
	return &lessonService{
		lessons:     lessonRepo,
		files:       fileRepo,
		courses:     courseRepo,
		enrollments: enrollmentRepo,
		uploader:    uploader,
		validator:   validate,
		logger:      logger.With().Str("component", "lesson_service").Logger(),
		now:         time.Now,
	}
}

func (s *lessonService) List(ctx context.Context, identity authz.Identity, courseID uint, search string) ([]dto.LessonResponse, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canView(ctx, identity, course)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return []dto.LessonResponse{}, nil
	}

	lessons, err := s.lessons.ListByCourse(ctx, courseID, search)
	if err != nil {
		return nil, err
	}
	return dto.NewLessonResponseSlice(lessons), nil
}

func (s *lessonService) Get(ctx context.Context, identity authz.Identity, courseID, lessonID uint) (dto.LessonResponse, error) {
	lesson, course, err := s.loadLesson(ctx, courseID, lessonID)
	if err != nil {
		return dto.LessonResponse{}, err
	}

	allowed, err := s.canView(ctx, identity, course)
	if err != nil {
		return dto.LessonResponse{}, err
	}
	if !allowed {
		return dto.LessonResponse{}, ErrLessonNotFound
	}

	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) Create(ctx context.Context, identity authz.Identity, courseID uint, payload dto.LessonCreateRequest) (dto.LessonResponse, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return dto.LessonResponse{}, err
	}
	if err := authz.CanMutateCourseContent(identity, course); err != nil {
		return dto.LessonResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.LessonResponse{}, err
	}

	lesson := models.Lesson{
		Title:       payload.Title,
		Description: payload.Description,
		CourseID:    courseID,
	}
	if err := s.lessons.Create(ctx, &lesson); err != nil {
		return dto.LessonResponse{}, err
	}

	s.logger.Info().Uint("lesson_id", lesson.ID).Uint("course_id", courseID).Msg("lesson created")
	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) Update(ctx context.Context, identity authz.Identity, courseID, lessonID uint, payload dto.LessonUpdateRequest) (dto.LessonResponse, error) {
	lesson, course, err := s.loadLesson(ctx, courseID, lessonID)
	if err != nil {
		return dto.LessonResponse{}, err
	}
	if err := authz.CanMutateCourseContent(identity, course); err != nil {
		return dto.LessonResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.LessonResponse{}, err
	}

	if payload.Title != nil {
		lesson.Title = *payload.Title
	}
	if payload.Description != nil {
		lesson.Description = *payload.Description
	}

	if err := s.lessons.Update(ctx, &lesson); err != nil {
		return dto.LessonResponse{}, err
	}
	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) Delete(ctx context.Context, identity authz.Identity, courseID, lessonID uint) error {
	_, course, err := s.loadLesson(ctx, courseID, lessonID)
	if err != nil {
		return err
	}
	if err := authz.CanMutateCourseContent(identity, course); err != nil {
		return err
	}

	if err := s.lessons.Delete(ctx, lessonID); err != nil {
		return err
	}

	s.logger.Info().Uint("lesson_id", lessonID).Msg("lesson deleted")
	return nil
}

func (s *lessonService) ListFiles(ctx context.Context, identity authz.Identity, lessonID uint) ([]dto.LessonFileResponse, error) {
	_, course, err := s.loadLessonByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canView(ctx, identity, course)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return []dto.LessonFileResponse{}, nil
	}

	files, err := s.files.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	return dto.NewLessonFileResponseSlice(files), nil
}

func (s *lessonService) UploadFile(ctx context.Context, identity authz.Identity, lessonID uint, fileName string, reader io.Reader) (dto.LessonFileResponse, error) {
	lesson, course, err := s.loadLessonByID(ctx, lessonID)
	if err != nil {
		return dto.LessonFileResponse{}, err
	}
	if err := authz.CanMutateCourseContent(identity, course); err != nil {
		return dto.LessonFileResponse{}, err
	}
	if fileName == "" {
		return dto.LessonFileResponse{}, NewValidationError("file name is required")
	}

	payload, err := io.ReadAll(io.LimitReader(reader, maxLessonFileBytes+1))
	if err != nil {
		return dto.LessonFileResponse{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return dto.LessonFileResponse{}, NewValidationError("uploaded file is empty")
	}
	if len(payload) > maxLessonFileBytes {
		return dto.LessonFileResponse{}, NewValidationError("file exceeds the %d byte limit", maxLessonFileBytes)
	}

	detected := mimetype.Detect(payload)
	if _, ok := allowedLessonFileTypes[baseMIME(detected.String())]; !ok {
		return dto.LessonFileResponse{}, NewValidationError("file type %s is not allowed", detected.String())
	}

	url, err := s.uploader.Upload(ctx, fileName, bytes.NewReader(payload))
	if err != nil {
		return dto.LessonFileResponse{}, fmt.Errorf("failed to store file: %w", err)
	}

	file := models.LessonFile{
		LessonID: lesson.ID,
		FileURL:  url,
		FileName: fileName,
	}
	if err := s.files.Create(ctx, &file); err != nil {
		return dto.LessonFileResponse{}, err
	}

	s.logger.Info().
		Uint("lesson_id", lesson.ID).
		Uint("file_id", file.ID).
		Str("mime", detected.String()).
		Msg("lesson file uploaded")
	return dto.NewLessonFileResponse(file), nil
}

func (s *lessonService) DeleteFile(ctx context.Context, identity authz.Identity, lessonID, fileID uint) error {
	_, course, err := s.loadLessonByID(ctx, lessonID)
	if err != nil {
		return err
	}
	if err := authz.CanMutateCourseContent(identity, course); err != nil {
		return err
	}

	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonFileNotFound
		}
		return err
	}
	if file.LessonID != lessonID {
		return ErrLessonFileNotFound
	}

	if err := s.files.Delete(ctx, fileID); err != nil {
		return err
	}

	s.logger.Info().Uint("file_id", fileID).Msg("lesson file deleted")
	return nil
}

// canView resolves the enrollment check lazily so public course metadata
// reads never hit the enrollments table.
func (s *lessonService) canView(ctx context.Context, identity authz.Identity, course models.Course) (bool, error) {
	if identity.Anonymous() {
		return false, nil
	}
	if course.OwnedBy(identity.UserID) {
		return true, nil
	}
	enrolled, err := s.enrollments.Exists(ctx, identity.UserID, course.ID)
	if err != nil {
		return false, err
	}
	return authz.CanViewCourseContent(identity, course, enrolled), nil
}

func (s *lessonService) loadCourse(ctx context.Context, courseID uint) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}
	return course, nil
}

func (s *lessonService) loadLesson(ctx context.Context, courseID, lessonID uint) (models.Lesson, models.Course, error) {
	lesson, course, err := s.loadLessonByID(ctx, lessonID)
	if err != nil {
		return models.Lesson{}, models.Course{}, err
	}
	if lesson.CourseID != courseID {
		return models.Lesson{}, models.Course{}, ErrLessonNotFound
	}
	return lesson, course, nil
}

func (s *lessonService) loadLessonByID(ctx context.Context, lessonID uint) (models.Lesson, models.Course, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Lesson{}, models.Course{}, ErrLessonNotFound
		}
		return models.Lesson{}, models.Course{}, err
	}

	course, err := s.courses.GetByID(ctx, lesson.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Lesson{}, models.Course{}, ErrCourseNotFound
		}
		return models.Lesson{}, models.Course{}, err
	}
	return lesson, course, nil
}

// baseMIME strips parameters such as "; charset=utf-8".
func baseMIME(value string) string {
	for i := 0; i < len(value); i++ {
		if value[i] == ';' {
			return value[:i]
		}
	}
	return value
}
