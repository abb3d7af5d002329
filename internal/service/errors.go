package service

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Handlers translate them to the
// HTTP error taxonomy; nothing below carries internal identifiers.
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrLevelNotFound      = errors.New("level not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrLessonFileNotFound = errors.New("lesson file not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrRatingNotFound     = errors.New("rating not found")

	// ErrQuizInactive rejects submissions against a deactivated quiz.
	ErrQuizInactive = errors.New("quiz inactive")
	// ErrAlreadySubmitted rejects a second submission for the same
	// (student, quiz) pair; submissions are deliberately not idempotent.
	ErrAlreadySubmitted = errors.New("already submitted")
	// ErrAlreadyRated rejects a second rating for the same (user, course).
	ErrAlreadyRated = errors.New("already rated")
	// ErrNotEnrolled gates rating writes on an active enrollment.
	ErrNotEnrolled = errors.New("must be enrolled in the course")
	// ErrSelfEnroll rejects instructors enrolling in their own course.
	ErrSelfEnroll = errors.New("instructors cannot enroll in their own courses")
)

// ValidationError reports semantically invalid input, distinct from the
// struct-tag failures produced by the validator package.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a semantic validation failure.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
