package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/elearnhq/elearn-api/internal/authz"
	"github.com/elearnhq/elearn-api/internal/dto"
	"github.com/elearnhq/elearn-api/internal/models"
	"github.com/elearnhq/elearn-api/internal/repository"
)

// QuizService manages quizzes and their questions. Quiz reads follow the
// same gating as lessons; question routes are only visible to the owning
// instructor because responses include the correct option.
type QuizService interface {
	List(ctx context.Context, identity authz.Identity, lessonID uint) ([]dto.QuizResponse, error)
	Get(ctx context.Context, identity authz.Identity, quizID uint) (dto.QuizResponse, error)
	Create(ctx context.Context, identity authz.Identity, lessonID uint, payload dto.QuizCreateRequest) (dto.QuizResponse, error)
	Update(ctx context.Context, identity authz.Identity, quizID uint, payload dto.QuizUpdateRequest) (dto.QuizResponse, error)
	Delete(ctx context.Context, identity authz.Identity, quizID uint) error

	ListQuestions(ctx context.Context, identity authz.Identity, quizID uint) ([]dto.QuestionResponse, error)
	CreateQuestion(ctx context.Context, identity authz.Identity, quizID uint, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, identity authz.Identity, quizID, questionID uint, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, identity authz.Identity, quizID, questionID uint) error
}

type quizService struct {
	quizzes     repository.QuizRepository
	questions   repository.QuestionRepository
	lessons     repository.LessonRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewQuizService constructs a QuizService instance.
func NewQuizService(quizRepo repository.QuizRepository, questionRepo repository.QuestionRepository, lessonRepo repository.LessonRepository, courseRepo repository.CourseRepository, enrollmentRepo repository.EnrollmentRepository, validate *validator.Validate, logger zerolog.Logger) QuizService {
	return &quizService{
		quizzes:     quizRepo,
		questions:   questionRepo,
		lessons:     lessonRepo,
		courses:     courseRepo,
		enrollments: enrollmentRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "quiz_service").Logger(),
	}
}

func (s *quizService) List(ctx context.Context, identity authz.Identity, lessonID uint) ([]dto.QuizResponse, error) {
	course, err := s.courseForLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canView(ctx, identity, course)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return []dto.QuizResponse{}, nil
	}

	quizzes, err := s.quizzes.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	return dto.NewQuizResponseSlice(quizzes), nil
}

func (s *quizService) Get(ctx context.Context, identity authz.Identity, quizID uint) (dto.QuizResponse, error) {
	quiz, course, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	allowed, err := s.canView(ctx, identity, course)
	if err != nil {
		return dto.QuizResponse{}, err
	}
	if !allowed {
		return dto.QuizResponse{}, ErrQuizNotFound
	}

	response := dto.NewQuizResponse(quiz)
	// The correct option is stripped from student views of the question
	// set. The owning instructor sees it on the question routes instead.
	for i := range response.Questions {
		response.Questions[i].CorrectOption = ""
	}
	return response, nil
}

func (s *quizService) Create(ctx context.Context, identity authz.Identity, lessonID uint, payload dto.QuizCreateRequest) (dto.QuizResponse, error) {
	course, err := s.courseForLesson(ctx, lessonID)
	if err != nil {
		return dto.QuizResponse{}, err
	}
	if err := authz.CanMutateCourseContent(identity, course); err != nil {
		return dto.QuizResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	quiz := models.Quiz{
		Title:            payload.Title,
		Description:      payload.Description,
		LessonID:         lessonID,
		IsActive:         true,
		TimeLimitSeconds: payload.TimeLimitSeconds,
	}
	if payload.IsActive != nil {
		quiz.IsActive = *payload.IsActive
	}

	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Uint("lesson_id", lessonID).Msg("quiz created")
	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Update(ctx context.Context, identity authz.Identity, quizID uint, payload dto.QuizUpdateRequest) (dto.QuizResponse, error) {
	quiz, course, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return dto.QuizResponse{}, err
	}
	if err := authz.CanMutateCourseContent(identity, course); err != nil {
		return dto.QuizResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	if payload.Title != nil {
		quiz.Title = *payload.Title
	}
	if payload.Description != nil {
		quiz.Description = *payload.Description
	}
	if payload.IsActive != nil {
		quiz.IsActive = *payload.IsActive
	}
	if payload.TimeLimitSeconds != nil {
		quiz.TimeLimitSeconds = payload.TimeLimitSeconds
	}

	if err := s.quizzes.Update(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}
	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Delete(ctx context.Context, identity authz.Identity, quizID uint) error {
	_, course, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if err := authz.CanMutateCourseContent(identity, course); err != nil {
		return err
	}

	if err := s.quizzes.Delete(ctx, quizID); err != nil {
		return err
	}

	s.logger.Info().Uint("quiz_id", quizID).Msg("quiz deleted")
	return nil
}

func (s *quizService) ListQuestions(ctx context.Context, identity authz.Identity, quizID uint) ([]dto.QuestionResponse, error) {
	_, course, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanMutateCourseContent(identity, course); err != nil {
		return nil, err
	}

	questions, err := s.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *quizService) CreateQuestion(ctx context.Context, identity authz.Identity, quizID uint, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	_, course, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return dto.QuestionResponse{}, err
	}
	if err := authz.CanMutateCourseContent(identity, course); err != nil {
		return dto.QuestionResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}
	if _, ok := payload.Options[payload.CorrectOption]; !ok {
		return dto.QuestionResponse{}, NewValidationError("correct_option %q is not one of the options", payload.CorrectOption)
	}

	questionType := payload.QuestionType
	if questionType == "" {
		questionType = models.QuestionTypeMultipleChoice
	}

	question := models.Question{
		QuizID:        quizID,
		QuestionText:  payload.QuestionText,
		Options:       optionsToJSONMap(payload.Options),
		CorrectOption: payload.CorrectOption,
		Points:        payload.Points,
		QuestionType:  questionType,
	}

	if err := s.questions.Create(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.logger.Info().Uint("question_id", question.ID).Uint("quiz_id", quizID).Msg("question created")
	return dto.NewQuestionResponse(question), nil
}

func (s *quizService) UpdateQuestion(ctx context.Context, identity authz.Identity, quizID, questionID uint, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error) {
	_, course, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return dto.QuestionResponse{}, err
	}
	if err := authz.CanMutateCourseContent(identity, course); err != nil {
		return dto.QuestionResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question, err := s.loadQuestion(ctx, quizID, questionID)
	if err != nil {
		return dto.QuestionResponse{}, err
	}

	if payload.QuestionText != nil {
		question.QuestionText = *payload.QuestionText
	}
	if payload.Options != nil {
		question.Options = optionsToJSONMap(payload.Options)
	}
	if payload.CorrectOption != nil {
		question.CorrectOption = *payload.CorrectOption
	}
	if payload.Points != nil {
		question.Points = *payload.Points
	}
	if payload.QuestionType != nil {
		question.QuestionType = *payload.QuestionType
	}

	// The invariant must hold after any combination of partial updates.
	if !question.HasOption(question.CorrectOption) {
		return dto.QuestionResponse{}, NewValidationError("correct_option %q is not one of the options", question.CorrectOption)
	}

	if err := s.questions.Update(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}
	return dto.NewQuestionResponse(question), nil
}

func (s *quizService) DeleteQuestion(ctx context.Context, identity authz.Identity, quizID, questionID uint) error {
	_, course, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if err := authz.CanMutateCourseContent(identity, course); err != nil {
		return err
	}

	if _, err := s.loadQuestion(ctx, quizID, questionID); err != nil {
		return err
	}

	if err := s.questions.Delete(ctx, questionID); err != nil {
		return err
	}

	s.logger.Info().Uint("question_id", questionID).Msg("question deleted")
	return nil
}

func (s *quizService) canView(ctx context.Context, identity authz.Identity, course models.Course) (bool, error) {
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

func (s *quizService) courseForLesson(ctx context.Context, lessonID uint) (models.Course, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrLessonNotFound
		}
		return models.Course{}, err
	}

	course, err := s.courses.GetByID(ctx, lesson.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}
	return course, nil
}

// loadQuiz resolves a quiz with its full questions plus the owning course
// by walking quiz -> lesson -> course.
func (s *quizService) loadQuiz(ctx context.Context, quizID uint) (models.Quiz, models.Course, error) {
	quiz, err := s.quizzes.GetWithQuestions(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Quiz{}, models.Course{}, ErrQuizNotFound
		}
		return models.Quiz{}, models.Course{}, err
	}

	course, err := s.courses.GetByID(ctx, quiz.Lesson.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Quiz{}, models.Course{}, ErrCourseNotFound
		}
		return models.Quiz{}, models.Course{}, err
	}
	return quiz, course, nil
}

func (s *quizService) loadQuestion(ctx context.Context, quizID, questionID uint) (models.Question, error) {
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Question{}, ErrQuestionNotFound
		}
		return models.Question{}, err
	}
	if question.QuizID != quizID {
		return models.Question{}, ErrQuestionNotFound
	}
	return question, nil
}

func optionsToJSONMap(options map[string]string) datatypes.JSONMap {
	converted := make(datatypes.JSONMap, len(options))
	for key, value := range options {
		converted[key] = value
	}
	return converted
}
