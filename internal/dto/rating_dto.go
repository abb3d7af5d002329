package dto

import (
	"time"

	"github.com/elearnhq/elearn-api/internal/models"
)

// RatingCreateRequest describes the payload for rating a course.
// Values carry at most one decimal of precision, e.g. 4.5. Rating is a
// pointer so that presence is checked rather than the numeric zero value:
// 0.0 is a valid rating.
type RatingCreateRequest struct {
	Rating  *float64 `json:"rating" validate:"required,gte=0,lte=5"`
	Comment string   `json:"comment"`
}

// RatingUpdateRequest carries optional fields for partial updates.
type RatingUpdateRequest struct {
	Rating  *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Comment *string  `json:"comment"`
}

// RatingResponse serializes a rating.
type RatingResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	CourseID  uint      `json:"course_id"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRatingResponse converts a rating model into a DTO.
func NewRatingResponse(model models.Rating) RatingResponse {
	response := RatingResponse{
		ID:        model.ID,
		UserID:    model.UserID,
		CourseID:  model.CourseID,
		Rating:    model.Rating,
		Comment:   model.Comment,
		CreatedAt: model.CreatedAt,
	}
	if model.User.ID != 0 {
		response.Username = model.User.Username
	}
	return response
}

// NewRatingResponseSlice converts rating models into DTOs.
func NewRatingResponseSlice(items []models.Rating) []RatingResponse {
	responses := make([]RatingResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewRatingResponse(item))
	}
	return responses
}
