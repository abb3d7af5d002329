package models

import "time"

// Lesson is a unit of course content. Visibility follows the enrollment
// rules of the owning course.
type Lesson struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Course      Course    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// LessonFile is an uploaded attachment for a lesson.
type LessonFile struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LessonID   uint      `gorm:"not null;index" json:"lesson_id"`
	FileURL    string    `gorm:"size:512;not null" json:"file_url"`
	FileName   string    `gorm:"size:255" json:"file_name"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
	Lesson     Lesson    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
