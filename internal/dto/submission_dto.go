package dto

import (
	"time"

	"github.com/elearnhq/elearn-api/internal/models"
)

// AnswerInput is one (question, selected option) pair in a submission.
type AnswerInput struct {
	QuestionID     uint   `json:"question" validate:"required,gt=0"`
	SelectedOption string `json:"selected_option" validate:"required"`
}

// SubmissionCreateRequest is the body of POST /quizzes/:quizID/submissions.
type SubmissionCreateRequest struct {
	Answers []AnswerInput `json:"answers" validate:"required,min=1,dive"`
}

// SubmissionAnswerResponse echoes a validated answer back to the client.
type SubmissionAnswerResponse struct {
	QuestionID     uint   `json:"question"`
	SelectedOption string `json:"selected_option"`
}

// SubmissionResponse is returned after scoring a submission.
type SubmissionResponse struct {
	ID             uint                       `json:"id"`
	StudentID      uint                       `json:"student_id"`
	StudentName    string                     `json:"student_name,omitempty"`
	QuizID         uint                       `json:"quiz_id"`
	Score          int                        `json:"score"`
	Answers        []SubmissionAnswerResponse `json:"answers"`
	SubmissionDate time.Time                  `json:"submission_date"`
}

// NewSubmissionResponse converts a submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	answers := make([]SubmissionAnswerResponse, 0, len(model.Answers))
	for _, answer := range model.Answers {
		answers = append(answers, SubmissionAnswerResponse{
			QuestionID:     answer.QuestionID,
			SelectedOption: answer.SelectedOption,
		})
	}

	response := SubmissionResponse{
		ID:             model.ID,
		StudentID:      model.StudentID,
		QuizID:         model.QuizID,
		Score:          model.Score,
		Answers:        answers,
		SubmissionDate: model.SubmittedAt,
	}
	if model.Student.ID != 0 {
		response.StudentName = model.Student.Username
	}
	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(items []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewSubmissionResponse(item))
	}
	return responses
}
