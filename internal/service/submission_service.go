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

// SubmissionService validates, scores and records quiz submissions.
type SubmissionService interface {
	Submit(ctx context.Context, identity authz.Identity, quizID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	ListForQuiz(ctx context.Context, identity authz.Identity, quizID uint) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	quizzes     repository.QuizRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, quizRepo repository.QuizRepository, courseRepo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		quizzes:     quizRepo,
		courses:     courseRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

// Submit runs the validation sequence in order; the first failing check
// wins. Scoring is deterministic with no partial credit.
func (s *submissionService) Submit(ctx context.Context, identity authz.Identity, quizID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if identity.Anonymous() {
		return dto.SubmissionResponse{}, authz.ErrUnauthenticated
	}
	if !identity.IsStudent() {
		return dto.SubmissionResponse{}, authz.ErrForbidden
	}

	quiz, err := s.quizzes.GetWithQuestions(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrQuizNotFound
		}
		return dto.SubmissionResponse{}, err
	}
	if !quiz.IsActive {
		return dto.SubmissionResponse{}, ErrQuizInactive
	}

	submitted, err := s.submissions.Exists(ctx, identity.UserID, quizID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if submitted {
		return dto.SubmissionResponse{}, ErrAlreadySubmitted
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	answers, score, err := scoreAnswers(quiz.Questions, payload.Answers)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		StudentID: identity.UserID,
		QuizID:    quizID,
		Score:     score,
		Answers:   answers,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		// the unique index catches duplicates racing past the pre-check
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.SubmissionResponse{}, ErrAlreadySubmitted
		}
		return dto.SubmissionResponse{}, err
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", created.ID).
		Uint("quiz_id", quizID).
		Int("score", score).
		Msg("submission recorded")

	return dto.NewSubmissionResponse(created), nil
}

// scoreAnswers checks the answer set against the quiz's question set and
// computes the total score. The answered question identifiers must equal
// the quiz's question identifiers exactly, with no duplicates, and every
// selected option must be a key of its question's option map.
func scoreAnswers(questions []models.Question, answers []dto.AnswerInput) ([]models.SubmissionAnswer, int, error) {
	byID := make(map[uint]models.Question, len(questions))
	for _, question := range questions {
		byID[question.ID] = question
	}

	seen := make(map[uint]struct{}, len(answers))
	for _, answer := range answers {
		if _, dup := seen[answer.QuestionID]; dup {
			return nil, 0, NewValidationError("duplicate answer for question %d", answer.QuestionID)
		}
		seen[answer.QuestionID] = struct{}{}
	}

	if len(seen) != len(byID) {
		return nil, 0, NewValidationError("all questions must be answered")
	}
	for id := range seen {
		if _, ok := byID[id]; !ok {
			return nil, 0, NewValidationError("all questions must be answered")
		}
	}

	validated := make([]models.SubmissionAnswer, 0, len(answers))
	score := 0
	for _, answer := range answers {
		question := byID[answer.QuestionID]
		if !question.HasOption(answer.SelectedOption) {
			return nil, 0, NewValidationError("invalid option for question %d", answer.QuestionID)
		}
		if answer.SelectedOption == question.CorrectOption {
			score += question.Points
		}
		validated = append(validated, models.SubmissionAnswer{
			QuestionID:     answer.QuestionID,
			SelectedOption: answer.SelectedOption,
		})
	}

	return validated, score, nil
}

// ListForQuiz returns the caller's own submissions, or every submission
// for the quiz when the caller is the owning instructor. Anyone else sees
// an empty set rather than a denial.
func (s *submissionService) ListForQuiz(ctx context.Context, identity authz.Identity, quizID uint) ([]dto.SubmissionResponse, error) {
	if identity.Anonymous() {
		return nil, authz.ErrUnauthenticated
	}

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, quiz.Lesson.CourseID)
	if err != nil {
		return nil, err
	}

	switch {
	case course.OwnedBy(identity.UserID):
		submissions, err := s.submissions.ListByQuiz(ctx, quizID)
		if err != nil {
			return nil, err
		}
		return dto.NewSubmissionResponseSlice(submissions), nil
	case identity.IsStudent():
		submissions, err := s.submissions.ListByQuizAndStudent(ctx, quizID, identity.UserID)
		if err != nil {
			return nil, err
		}
		return dto.NewSubmissionResponseSlice(submissions), nil
	default:
		return []dto.SubmissionResponse{}, nil
	}
}
