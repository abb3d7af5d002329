package dto

import (
	"time"

	"github.com/elearnhq/elearn-api/internal/models"
)

// EnrollmentUpdateRequest updates progress or completion status.
type EnrollmentUpdateRequest struct {
	Progress  *float64 `json:"progress" validate:"omitempty,gte=0,lte=100"`
	Completed *bool    `json:"completed"`
}

// EnrollmentResponse serializes an enrollment.
type EnrollmentResponse struct {
	ID          uint      `json:"id"`
	StudentID   uint      `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	CourseID    uint      `json:"course_id"`
	CourseTitle string    `json:"course_title,omitempty"`
	Progress    float64   `json:"progress"`
	Completed   bool      `json:"completed"`
	EnrolledAt  time.Time `json:"date_enrolled"`
}

// EnrollResult pairs the enrollment with whether this request created it,
// so the handler can answer 201 for new rows and 200 for repeats.
type EnrollResult struct {
	Enrollment EnrollmentResponse
	Created    bool
}

// NewEnrollmentResponse converts an enrollment model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	response := EnrollmentResponse{
		ID:         model.ID,
		StudentID:  model.StudentID,
		CourseID:   model.CourseID,
		Progress:   model.Progress,
		Completed:  model.Completed,
		EnrolledAt: model.EnrolledAt,
	}
	if model.Student.ID != 0 {
		response.StudentName = model.Student.Username
	}
	if model.Course.ID != 0 {
		response.CourseTitle = model.Course.Title
	}
	return response
}

// NewEnrollmentResponseSlice converts enrollment models into DTOs.
func NewEnrollmentResponseSlice(items []models.Enrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewEnrollmentResponse(item))
	}
	return responses
}
