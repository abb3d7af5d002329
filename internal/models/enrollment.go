package models

import "time"

// Enrollment grants a student access to a course's lessons and files and
// the right to rate it. One row per (student, course).
type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_enrollments_student_course" json:"student_id"`
	CourseID   uint      `gorm:"not null;uniqueIndex:idx_enrollments_student_course" json:"course_id"`
	Progress   float64   `gorm:"not null;default:0" json:"progress"`
	Completed  bool      `gorm:"not null;default:false" json:"completed"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolled_at"`
	Student    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Course     Course    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"course"`
}
