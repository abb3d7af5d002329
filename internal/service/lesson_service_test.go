package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/elearnhq/elearn-api/internal/authz"
	"github.com/elearnhq/elearn-api/internal/dto"
	"github.com/elearnhq/elearn-api/internal/models"
)

func newLessonFixture(t *testing.T) (LessonService, *stubEnrollmentRepo, *stubUploader) {
	t.Helper()
	courses := newStubCourseRepo(models.Course{ID: 1, Title: "Go Basics", InstructorID: 50})
	lessons := newStubLessonRepo(models.Lesson{ID: 1, Title: "Slices", CourseID: 1})
	enrollments := newStubEnrollmentRepo(courses)
	uploader := &stubUploader{url: "https://cdn.example.com/files/slices.pdf"}
	svc := NewLessonService(lessons, newStubLessonFileRepo(), courses, enrollments, uploader, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
	return svc, enrollments, uploader
}

func TestLessonListHiddenFromUnenrolledStudent(t *testing.T) {
	svc, enrollments, _ := newLessonFixture(t)

	lessons, err := svc.List(context.Background(), student(100), 1, "")
	require.NoError(t, err)
	require.Empty(t, lessons)

	enroll(t, enrollments, 100, 1)

	lessons, err = svc.List(context.Background(), student(100), 1, "")
	require.NoError(t, err)
	require.Len(t, lessons, 1)
}

func TestLessonListVisibleToOwner(t *testing.T) {
	svc, _, _ := newLessonFixture(t)

	lessons, err := svc.List(context.Background(), instructor(50), 1, "")
	require.NoError(t, err)
	require.Len(t, lessons, 1)

	lessons, err = svc.List(context.Background(), instructor(51), 1, "")
	require.NoError(t, err)
	require.Empty(t, lessons)
}

func TestLessonGetHiddenReadsAsNotFound(t *testing.T) {
	svc, enrollments, _ := newLessonFixture(t)

	_, err := svc.Get(context.Background(), student(100), 1, 1)
	require.ErrorIs(t, err, ErrLessonNotFound)

	enroll(t, enrollments, 100, 1)

	lesson, err := svc.Get(context.Background(), student(100), 1, 1)
	require.NoError(t, err)
	require.Equal(t, "Slices", lesson.Title)
}

func TestLessonWritesRequireOwner(t *testing.T) {
	svc, enrollments, _ := newLessonFixture(t)
	enroll(t, enrollments, 100, 1)

	payload := dto.LessonCreateRequest{Title: "Maps and sets"}

	_, err := svc.Create(context.Background(), student(100), 1, payload)
	require.ErrorIs(t, err, authz.ErrForbidden)

	_, err = svc.Create(context.Background(), instructor(51), 1, payload)
	require.ErrorIs(t, err, authz.ErrForbidden)

	created, err := svc.Create(context.Background(), instructor(50), 1, payload)
	require.NoError(t, err)
	require.Equal(t, "Maps and sets", created.Title)
}

func TestLessonFileUploadChecksContentType(t *testing.T) {
	svc, _, uploader := newLessonFixture(t)

	pdf := []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	file, err := svc.UploadFile(context.Background(), instructor(50), 1, "slides.pdf", bytes.NewReader(pdf))
	require.NoError(t, err)
	require.Equal(t, uploader.url, file.FileURL)
	require.Equal(t, 1, uploader.uploaded)

	// ELF header detects as an executable, which the whitelist rejects
	elf := append([]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0}, make([]byte, 56)...)
	_, err = svc.UploadFile(context.Background(), instructor(50), 1, "tool.bin", bytes.NewReader(elf))
	require.Error(t, err)
	require.True(t, IsValidation(err))
	require.Equal(t, 1, uploader.uploaded)
}

func TestLessonFileUploadRequiresOwner(t *testing.T) {
	svc, enrollments, _ := newLessonFixture(t)
	enroll(t, enrollments, 100, 1)

	_, err := svc.UploadFile(context.Background(), student(100), 1, "notes.txt", bytes.NewReader([]byte("hello")))
	require.ErrorIs(t, err, authz.ErrForbidden)
}

func TestLessonFileListGated(t *testing.T) {
	svc, enrollments, _ := newLessonFixture(t)

	_, err := svc.UploadFile(context.Background(), instructor(50), 1, "notes.txt", bytes.NewReader([]byte("plain text notes")))
	require.NoError(t, err)

	files, err := svc.ListFiles(context.Background(), student(100), 1)
	require.NoError(t, err)
	require.Empty(t, files)

	enroll(t, enrollments, 100, 1)

	files, err = svc.ListFiles(context.Background(), student(100), 1)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "notes.txt", files[0].FileName)
}

func TestLessonFileUploadRejectsEmptyFile(t *testing.T) {
	svc, _, _ := newLessonFixture(t)

	_, err := svc.UploadFile(context.Background(), instructor(50), 1, "empty.txt", bytes.NewReader(nil))
	require.Error(t, err)
	require.True(t, IsValidation(err))
}
