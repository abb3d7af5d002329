// Package authz centralises the role, ownership and enrollment rules that
// gate access to catalog resources. Services consult it instead of
// re-implementing per-endpoint role checks.
package authz

import (
	"errors"

	"github.com/elearnhq/elearn-api/internal/models"
)

// Outcomes shared across the API. Handlers translate these to HTTP codes.
var (
	// ErrUnauthenticated means no valid identity accompanied the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the identity is valid but not permitted.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrNotFound hides gated resources from callers without access.
	ErrNotFound = errors.New("resource not found")
)

// Identity is the authenticated caller, threaded explicitly through every
// service call. A zero UserID means anonymous.
type Identity struct {
	UserID uint
	Role   string
}

// Anonymous reports whether the request carried no authenticated user.
func (id Identity) Anonymous() bool {
	return id.UserID == 0
}

// IsStudent reports whether the caller holds the student role.
func (id Identity) IsStudent() bool {
	return id.Role == models.RoleStudent
}

// IsInstructor reports whether the caller holds the instructor role.
func (id Identity) IsInstructor() bool {
	return id.Role == models.RoleInstructor
}

// Action names the operations the policy table distinguishes.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// CanMutateCourse allows course creation for instructors only, and
// update/delete for the owning instructor only.
func CanMutateCourse(id Identity, action Action, course *models.Course) error {
	if id.Anonymous() {
		return ErrUnauthenticated
	}
	if !id.IsInstructor() {
		return ErrForbidden
	}
	if action == ActionCreate {
		return nil
	}
	if course == nil || !course.OwnedBy(id.UserID) {
		return ErrForbidden
	}
	return nil
}

// CanMutateCatalog gates category and level writes to instructors.
func CanMutateCatalog(id Identity) error {
	if id.Anonymous() {
		return ErrUnauthenticated
	}
	if !id.IsInstructor() {
		return ErrForbidden
	}
	return nil
}

// CanMutateCourseContent authorises writes on lessons, lesson files,
// quizzes and questions by walking the ownership chain up to the course
// instructor. The caller resolves the owning course first.
func CanMutateCourseContent(id Identity, course models.Course) error {
	if id.Anonymous() {
		return ErrUnauthenticated
	}
	if !course.OwnedBy(id.UserID) {
		return ErrForbidden
	}
	return nil
}

// CanViewCourseContent reports whether gated reads (lesson retrieve,
// lesson files, quizzes) are visible to the caller: the course instructor
// or an enrolled student. Callers that fail this check receive empty
// result sets rather than an explicit denial.
func CanViewCourseContent(id Identity, course models.Course, enrolled bool) bool {
	if id.Anonymous() {
		return false
	}
	return course.OwnedBy(id.UserID) || enrolled
}

// CanTouchEnrollment authorises reads and writes on a single enrollment.
// The owning student may do both; the course instructor may only read.
func CanTouchEnrollment(id Identity, action Action, enrollment models.Enrollment, course models.Course) error {
	if id.Anonymous() {
		return ErrUnauthenticated
	}
	if enrollment.StudentID == id.UserID {
		return nil
	}
	if action == ActionRead && course.OwnedBy(id.UserID) {
		return nil
	}
	return ErrForbidden
}
