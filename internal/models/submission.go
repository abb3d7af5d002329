package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubmissionAnswer pairs a question with the option the student selected.
type SubmissionAnswer struct {
	QuestionID     uint   `json:"question_id"`
	SelectedOption string `json:"selected_option"`
}

// Submission is a student's one-time, scored answer set for a quiz.
// The (student, quiz) unique index makes retries hard failures.
type Submission struct {
	ID          uint                                    `gorm:"primaryKey" json:"id"`
	StudentID   uint                                    `gorm:"not null;uniqueIndex:idx_submissions_student_quiz" json:"student_id"`
	QuizID      uint                                    `gorm:"not null;uniqueIndex:idx_submissions_student_quiz" json:"quiz_id"`
	Score       int                                     `gorm:"not null;default:0" json:"score"`
	Answers     datatypes.JSONSlice[SubmissionAnswer]   `gorm:"type:json" json:"answers"`
	SubmittedAt time.Time                               `gorm:"autoCreateTime" json:"submission_date"`
	Student     User                                    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Quiz        Quiz                                    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
