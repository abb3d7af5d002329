package dto

import "github.com/elearnhq/elearn-api/internal/models"

// CategoryRequest covers category create and update payloads.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description"`
}

// CategoryResponse serializes a category.
type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewCategoryResponse converts a category model into a DTO.
func NewCategoryResponse(model models.Category) CategoryResponse {
	return CategoryResponse{ID: model.ID, Name: model.Name, Description: model.Description}
}

// NewCategoryResponseSlice converts category models into DTOs.
func NewCategoryResponseSlice(items []models.Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewCategoryResponse(item))
	}
	return responses
}

// LevelRequest covers level create and update payloads.
type LevelRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description"`
}

// LevelResponse serializes a level.
type LevelResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewLevelResponse converts a level model into a DTO.
func NewLevelResponse(model models.Level) LevelResponse {
	return LevelResponse{ID: model.ID, Name: model.Name, Description: model.Description}
}

// NewLevelResponseSlice converts level models into DTOs.
func NewLevelResponseSlice(items []models.Level) []LevelResponse {
	responses := make([]LevelResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewLevelResponse(item))
	}
	return responses
}
