package dto

import (
	"time"

	"github.com/elearnhq/elearn-api/internal/models"
	"github.com/elearnhq/elearn-api/internal/repository"
)

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=255"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	CategoryID  *uint   `json:"category_id" validate:"omitempty,gt=0"`
	LevelID     *uint   `json:"level_id" validate:"omitempty,gt=0"`
}

// CourseUpdateRequest carries optional fields for partial updates.
type CourseUpdateRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	CategoryID  *uint    `json:"category_id" validate:"omitempty,gt=0"`
	LevelID     *uint    `json:"level_id" validate:"omitempty,gt=0"`
}

// CourseListRequest mirrors the supported course query parameters.
// Malformed numeric filters are dropped by the handler, not rejected.
type CourseListRequest struct {
	Search       string
	CategoryID   *uint
	CategoryName string
	LevelName    string
	InstructorID *uint
	MinPrice     *float64
	MaxPrice     *float64
	MinRating    *float64
	Page         int `validate:"omitempty,gte=0"`
	PageSize     int `validate:"omitempty,gte=0,lte=100"`
}

// Pagination is the shared list metadata envelope.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
}

// CourseStats carries the live rating/enrollment aggregates for a course.
type CourseStats struct {
	AverageRating float64 `json:"average_rating"`
	StudentCount  int64   `json:"student_count"`
}

// CourseResponse is returned to API clients when viewing courses.
type CourseResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	CategoryID     *uint     `json:"category_id"`
	CategoryName   string    `json:"category_name,omitempty"`
	LevelID        *uint     `json:"level_id"`
	LevelName      string    `json:"level_name,omitempty"`
	InstructorID   uint      `json:"instructor_id"`
	InstructorName string    `json:"instructor_name,omitempty"`
	AverageRating  float64   `json:"average_rating"`
	StudentCount   int64     `json:"student_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CourseListResponse bundles courses with pagination metadata.
type CourseListResponse struct {
	Items      []CourseResponse `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

// NewCourseResponse converts a course model plus its stats into a DTO.
func NewCourseResponse(course models.Course, stats CourseStats) CourseResponse {
	response := CourseResponse{
		ID:            course.ID,
		Title:         course.Title,
		Description:   course.Description,
		Price:         course.Price,
		CategoryID:    course.CategoryID,
		LevelID:       course.LevelID,
		InstructorID:  course.InstructorID,
		AverageRating: stats.AverageRating,
		StudentCount:  stats.StudentCount,
		CreatedAt:     course.CreatedAt,
		UpdatedAt:     course.UpdatedAt,
	}
	if course.Category != nil {
		response.CategoryName = course.Category.Name
	}
	if course.Level != nil {
		response.LevelName = course.Level.Name
	}
	if course.Instructor.ID != 0 {
		response.InstructorName = course.Instructor.Username
	}
	return response
}

// NewCourseResponseFromStats converts an aggregated list row into a DTO.
func NewCourseResponseFromStats(row repository.CourseWithStats) CourseResponse {
	return CourseResponse{
		ID:             row.ID,
		Title:          row.Title,
		Description:    row.Description,
		Price:          row.Price,
		CategoryID:     row.CategoryID,
		CategoryName:   row.CategoryName,
		LevelID:        row.LevelID,
		LevelName:      row.LevelName,
		InstructorID:   row.InstructorID,
		InstructorName: row.InstructorName,
		AverageRating:  row.AverageRating,
		StudentCount:   row.StudentCount,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
