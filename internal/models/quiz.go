package models

import (
	"time"

	"gorm.io/datatypes"
)

// Question types supported by the quiz engine.
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeShortAnswer    = "short_answer"
	QuestionTypeFillInTheBlank = "fill_in_the_blank"
)

// Quiz belongs to a lesson. Inactive quizzes reject submissions.
type Quiz struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	LessonID         uint      `gorm:"not null;index" json:"lesson_id"`
	IsActive         bool      `gorm:"not null;default:true" json:"is_active"`
	TimeLimitSeconds *int      `json:"time_limit_seconds"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Lesson           Lesson    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Questions        []Question `json:"questions,omitempty"`
}

// Question holds the option map keyed by selectable identifiers.
// CorrectOption must be one of the option keys.
type Question struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	QuizID        uint              `gorm:"not null;index" json:"quiz_id"`
	QuestionText  string            `gorm:"type:text;not null" json:"question_text"`
	Options       datatypes.JSONMap `gorm:"type:json;not null" json:"options"`
	CorrectOption string            `gorm:"size:64;not null" json:"correct_option"`
	Points        int               `gorm:"not null;default:1" json:"points"`
	QuestionType  string            `gorm:"size:50;not null;default:multiple_choice" json:"question_type"`
	CreatedAt     time.Time         `json:"created_at"`
	Quiz          Quiz              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// HasOption reports whether key is a selectable option of the question.
func (q Question) HasOption(key string) bool {
	_, ok := q.Options[key]
	return ok
}
