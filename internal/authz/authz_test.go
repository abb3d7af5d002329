package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elearnhq/elearn-api/internal/models"
)

func TestCanMutateCourse(t *testing.T) {
	course := &models.Course{ID: 1, InstructorID: 7}

	owner := Identity{UserID: 7, Role: models.RoleInstructor}
	other := Identity{UserID: 8, Role: models.RoleInstructor}
	student := Identity{UserID: 9, Role: models.RoleStudent}

	require.NoError(t, CanMutateCourse(owner, ActionUpdate, course))
	require.ErrorIs(t, CanMutateCourse(other, ActionDelete, course), ErrForbidden)
	require.ErrorIs(t, CanMutateCourse(student, ActionCreate, nil), ErrForbidden)
	require.ErrorIs(t, CanMutateCourse(Identity{}, ActionCreate, nil), ErrUnauthenticated)

	// create does not need an existing course
	require.NoError(t, CanMutateCourse(other, ActionCreate, nil))
}

func TestCanViewCourseContent(t *testing.T) {
	course := models.Course{ID: 3, InstructorID: 7}

	require.True(t, CanViewCourseContent(Identity{UserID: 7, Role: models.RoleInstructor}, course, false))
	require.True(t, CanViewCourseContent(Identity{UserID: 9, Role: models.RoleStudent}, course, true))
	require.False(t, CanViewCourseContent(Identity{UserID: 9, Role: models.RoleStudent}, course, false))
	require.False(t, CanViewCourseContent(Identity{}, course, true))
}

func TestCanTouchEnrollment(t *testing.T) {
	course := models.Course{ID: 3, InstructorID: 7}
	enrollment := models.Enrollment{ID: 1, StudentID: 9, CourseID: 3}

	studentOwner := Identity{UserID: 9, Role: models.RoleStudent}
	instructor := Identity{UserID: 7, Role: models.RoleInstructor}
	stranger := Identity{UserID: 11, Role: models.RoleStudent}

	require.NoError(t, CanTouchEnrollment(studentOwner, ActionUpdate, enrollment, course))
	require.NoError(t, CanTouchEnrollment(studentOwner, ActionDelete, enrollment, course))

	// instructors of the course may read but never mutate
	require.NoError(t, CanTouchEnrollment(instructor, ActionRead, enrollment, course))
	require.ErrorIs(t, CanTouchEnrollment(instructor, ActionUpdate, enrollment, course), ErrForbidden)

	require.ErrorIs(t, CanTouchEnrollment(stranger, ActionRead, enrollment, course), ErrForbidden)
}
