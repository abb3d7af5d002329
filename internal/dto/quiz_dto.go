package dto

import (
	"time"

	"github.com/elearnhq/elearn-api/internal/models"
)

// QuizCreateRequest describes the payload for creating a quiz.
type QuizCreateRequest struct {
	Title            string `json:"title" validate:"required,min=3,max=255"`
	Description      string `json:"description"`
	IsActive         *bool  `json:"is_active"`
	TimeLimitSeconds *int   `json:"time_limit_seconds" validate:"omitempty,gt=0"`
}

// QuizUpdateRequest carries optional fields for partial updates.
type QuizUpdateRequest struct {
	Title            *string `json:"title" validate:"omitempty,min=3,max=255"`
	Description      *string `json:"description"`
	IsActive         *bool   `json:"is_active"`
	TimeLimitSeconds *int    `json:"time_limit_seconds" validate:"omitempty,gt=0"`
}

// QuizResponse serializes a quiz, optionally with its questions.
type QuizResponse struct {
	ID               uint               `json:"id"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	LessonID         uint               `json:"lesson_id"`
	IsActive         bool               `json:"is_active"`
	TimeLimitSeconds *int               `json:"time_limit_seconds"`
	Questions        []QuestionResponse `json:"questions,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// NewQuizResponse converts a quiz model into a DTO.
func NewQuizResponse(model models.Quiz) QuizResponse {
	response := QuizResponse{
		ID:               model.ID,
		Title:            model.Title,
		Description:      model.Description,
		LessonID:         model.LessonID,
		IsActive:         model.IsActive,
		TimeLimitSeconds: model.TimeLimitSeconds,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
	if len(model.Questions) > 0 {
		response.Questions = NewQuestionResponseSlice(model.Questions)
	}
	return response
}

// NewQuizResponseSlice converts quiz models into DTOs.
func NewQuizResponseSlice(items []models.Quiz) []QuizResponse {
	responses := make([]QuizResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewQuizResponse(item))
	}
	return responses
}

// QuestionCreateRequest describes the payload for creating a question.
// Options maps selectable keys to their display text; CorrectOption must
// be one of the keys, which the service verifies.
type QuestionCreateRequest struct {
	QuestionText  string            `json:"question_text" validate:"required"`
	Options       map[string]string `json:"options" validate:"required,min=2"`
	CorrectOption string            `json:"correct_option" validate:"required"`
	Points        int               `json:"points" validate:"required,gt=0"`
	QuestionType  string            `json:"question_type" validate:"omitempty,oneof=multiple_choice true_false short_answer fill_in_the_blank"`
}

// QuestionUpdateRequest carries optional fields for partial updates.
type QuestionUpdateRequest struct {
	QuestionText  *string           `json:"question_text"`
	Options       map[string]string `json:"options" validate:"omitempty,min=2"`
	CorrectOption *string           `json:"correct_option"`
	Points        *int              `json:"points" validate:"omitempty,gt=0"`
	QuestionType  *string           `json:"question_type" validate:"omitempty,oneof=multiple_choice true_false short_answer fill_in_the_blank"`
}

// QuestionResponse serializes a question. The correct option is included
// because question routes are only visible to the owning instructor.
type QuestionResponse struct {
	ID            uint              `json:"id"`
	QuizID        uint              `json:"quiz_id"`
	QuestionText  string            `json:"question_text"`
	Options       map[string]string `json:"options"`
	CorrectOption string            `json:"correct_option"`
	Points        int               `json:"points"`
	QuestionType  string            `json:"question_type"`
	CreatedAt     time.Time         `json:"created_at"`
}

// NewQuestionResponse converts a question model into a DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	options := make(map[string]string, len(model.Options))
	for key, value := range model.Options {
		if text, ok := value.(string); ok {
			options[key] = text
		}
	}
	return QuestionResponse{
		ID:            model.ID,
		QuizID:        model.QuizID,
		QuestionText:  model.QuestionText,
		Options:       options,
		CorrectOption: model.CorrectOption,
		Points:        model.Points,
		QuestionType:  model.QuestionType,
		CreatedAt:     model.CreatedAt,
	}
}

// NewQuestionResponseSlice converts question models into DTOs.
func NewQuestionResponseSlice(items []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewQuestionResponse(item))
	}
	return responses
}
