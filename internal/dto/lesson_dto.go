package dto

import (
	"time"

	"github.com/elearnhq/elearn-api/internal/models"
)

// LessonCreateRequest describes the payload for creating a lesson.
type LessonCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description"`
}

// LessonUpdateRequest carries optional fields for partial updates.
type LessonUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description"`
}

// LessonResponse serializes a lesson.
type LessonResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CourseID    uint      `json:"course_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewLessonResponse converts a lesson model into a DTO.
func NewLessonResponse(model models.Lesson) LessonResponse {
	return LessonResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		CourseID:    model.CourseID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewLessonResponseSlice converts lesson models into DTOs.
func NewLessonResponseSlice(items []models.Lesson) []LessonResponse {
	responses := make([]LessonResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewLessonResponse(item))
	}
	return responses
}

// LessonFileResponse serializes a lesson attachment.
type LessonFileResponse struct {
	ID         uint      `json:"id"`
	LessonID   uint      `json:"lesson_id"`
	FileURL    string    `json:"file_url"`
	FileName   string    `json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewLessonFileResponse converts a lesson file model into a DTO.
func NewLessonFileResponse(model models.LessonFile) LessonFileResponse {
	return LessonFileResponse{
		ID:         model.ID,
		LessonID:   model.LessonID,
		FileURL:    model.FileURL,
		FileName:   model.FileName,
		UploadedAt: model.UploadedAt,
	}
}

// NewLessonFileResponseSlice converts lesson file models into DTOs.
func NewLessonFileResponseSlice(items []models.LessonFile) []LessonFileResponse {
	responses := make([]LessonFileResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewLessonFileResponse(item))
	}
	return responses
}
