package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/elearnhq/elearn-api/internal/config"
	"github.com/elearnhq/elearn-api/internal/handler"
	"github.com/elearnhq/elearn-api/internal/models"
	"github.com/elearnhq/elearn-api/internal/repository"
	"github.com/elearnhq/elearn-api/internal/router"
	"github.com/elearnhq/elearn-api/internal/service"
)

type apiTestUploader struct{}

func (u *apiTestUploader) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	return "https://files.test/" + name, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func setupAPI(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Level{},
		&models.Course{},
		&models.Enrollment{},
		&models.Lesson{},
		&models.LessonFile{},
		&models.Quiz{},
		&models.Question{},
		&models.Submission{},
		&models.Rating{},
	))

	server := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	levelRepo := repository.NewLevelRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	lessonFileRepo := repository.NewLessonFileRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	statsService := service.NewCourseStatsService(ratingRepo, enrollmentRepo, cache, time.Minute, logger)
	courseService := service.NewCourseService(courseRepo, categoryRepo, levelRepo, statsService, validate, logger)
	catalogService := service.NewCatalogService(categoryRepo, levelRepo, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo, statsService, validate, logger)
	lessonService := service.NewLessonService(lessonRepo, lessonFileRepo, courseRepo, enrollmentRepo, &apiTestUploader{}, validate, logger)
	quizService := service.NewQuizService(quizRepo, questionRepo, lessonRepo, courseRepo, enrollmentRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, quizRepo, courseRepo, validate, logger)
	ratingService := service.NewRatingService(ratingRepo, enrollmentRepo, courseRepo, statsService, validate, logger)

	// Test auth reads the identity from headers so a single app can
	// serve requests for several callers.
	applyIdentity := func(c *fiber.Ctx) bool {
		raw := c.Get("X-Test-User")
		if raw == "" {
			return false
		}
		id, err := strconv.Atoi(raw)
		if err != nil {
			return false
		}
		c.Locals("user_id", uint(id))
		c.Locals("user_role", c.Get("X-Test-Role"))
		return true
	}

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		CatalogHandler:    handler.NewCatalogHandler(catalogService, logger),
		LessonHandler:     handler.NewLessonHandler(lessonService, logger),
		QuizHandler:       handler.NewQuizHandler(quizService, logger),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, logger),
		RatingHandler:     handler.NewRatingHandler(ratingService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			if !applyIdentity(c) {
				return c.SendStatus(fiber.StatusUnauthorized)
			}
			return c.Next()
		},
		OptionalJWT: func(c *fiber.Ctx) error {
			applyIdentity(c)
			return c.Next()
		},
	})

	return app, db
}

func seedUsers(t *testing.T, db *gorm.DB) (models.User, models.User) {
	t.Helper()
	instructor := models.User{Email: "teach@example.com", Username: "teach", Role: models.RoleInstructor, IsActive: true}
	student := models.User{Email: "learn@example.com", Username: "learn", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&instructor).Error)
	require.NoError(t, db.Create(&student).Error)
	return instructor, student
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, user models.User) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user.ID != 0 {
		req.Header.Set("X-Test-User", strconv.FormatUint(uint64(user.ID), 10))
		req.Header.Set("X-Test-Role", user.Role)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var result envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp, result
}

func TestEnrollmentEndpointIsIdempotent(t *testing.T) {
	app, db := setupAPI(t)
	instructor, student := seedUsers(t, db)

	course := models.Course{Title: "Go Basics", Description: "intro", InstructorID: instructor.ID}
	require.NoError(t, db.Create(&course).Error)

	path := fmt.Sprintf("/api/v1/courses/%d/enrollments", course.ID)

	resp, body := doJSON(t, app, http.MethodPost, path, nil, student)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "enrolled", body.Message)

	resp, body = doJSON(t, app, http.MethodPost, path, nil, student)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "already enrolled", body.Message)

	var count int64
	require.NoError(t, db.Model(&models.Enrollment{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSubmissionEndpointScoresAndRejectsRetry(t *testing.T) {
	app, db := setupAPI(t)
	instructor, student := seedUsers(t, db)

	course := models.Course{Title: "Go Basics", InstructorID: instructor.ID}
	require.NoError(t, db.Create(&course).Error)
	lesson := models.Lesson{Title: "Slices", CourseID: course.ID}
	require.NoError(t, db.Create(&lesson).Error)
	quiz := models.Quiz{Title: "Checkpoint", LessonID: lesson.ID, IsActive: true}
	require.NoError(t, db.Create(&quiz).Error)

	questions := []models.Question{
		{QuizID: quiz.ID, QuestionText: "q1", Options: datatypes.JSONMap{"a": "yes", "b": "no"}, CorrectOption: "a", Points: 2, QuestionType: models.QuestionTypeMultipleChoice},
		{QuizID: quiz.ID, QuestionText: "q2", Options: datatypes.JSONMap{"yes": "t", "no": "f"}, CorrectOption: "no", Points: 1, QuestionType: models.QuestionTypeTrueFalse},
		{QuizID: quiz.ID, QuestionText: "q3", Options: datatypes.JSONMap{"a": "1", "b": "2"}, CorrectOption: "a", Points: 7, QuestionType: models.QuestionTypeMultipleChoice},
	}
	for i := range questions {
		require.NoError(t, db.Create(&questions[i]).Error)
	}

	require.NoError(t, db.Create(&models.Enrollment{StudentID: student.ID, CourseID: course.ID}).Error)

	path := fmt.Sprintf("/api/v1/quizzes/%d/submissions", quiz.ID)
	payload := fiber.Map{"answers": []fiber.Map{
		{"question": questions[0].ID, "selected_option": "a"},
		{"question": questions[1].ID, "selected_option": "yes"},
		{"question": questions[2].ID, "selected_option": "a"},
	}}

	resp, body := doJSON(t, app, http.MethodPost, path, payload, student)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var submission struct {
		Score int `json:"score"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &submission))
	require.Equal(t, 9, submission.Score)

	// a second attempt conflicts with the recorded one
	resp, _ = doJSON(t, app, http.MethodPost, path, payload, student)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestSubmissionEndpointRejectsMutation(t *testing.T) {
	app, _ := setupAPI(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/quizzes/1/submissions/1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/quizzes/1/submissions/1", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCatalogWriteRequiresInstructorRole(t *testing.T) {
	app, db := setupAPI(t)
	instructor, student := seedUsers(t, db)

	payload := fiber.Map{"name": "Databases"}

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/categories", payload, student)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/categories", payload, instructor)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, body.Success)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/levels", fiber.Map{"name": "Beginner"}, student)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRatingEndpointRules(t *testing.T) {
	app, db := setupAPI(t)
	instructor, student := seedUsers(t, db)

	course := models.Course{Title: "Go Basics", InstructorID: instructor.ID}
	require.NoError(t, db.Create(&course).Error)

	path := fmt.Sprintf("/api/v1/courses/%d/ratings", course.ID)
	payload := fiber.Map{"rating": 4.5, "comment": "solid"}

	// not enrolled yet
	resp, _ := doJSON(t, app, http.MethodPost, path, payload, student)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	require.NoError(t, db.Create(&models.Enrollment{StudentID: student.ID, CourseID: course.ID}).Error)

	resp, _ = doJSON(t, app, http.MethodPost, path, payload, student)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, path, payload, student)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Contains(t, body.Message, "already rated")

	// ratings are permanent
	req := httptest.NewRequest(http.MethodDelete, path+"/1", nil)
	resp2, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusMethodNotAllowed, resp2.StatusCode)
}

func TestLessonListHiddenFromStrangers(t *testing.T) {
	app, db := setupAPI(t)
	instructor, student := seedUsers(t, db)

	course := models.Course{Title: "Go Basics", InstructorID: instructor.ID}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&models.Lesson{Title: "Slices", CourseID: course.ID}).Error)

	path := fmt.Sprintf("/api/v1/courses/%d/lessons", course.ID)

	// anonymous callers get an empty collection, not an error
	resp, body := doJSON(t, app, http.MethodGet, path, nil, models.User{})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var lessons []json.RawMessage
	require.NoError(t, json.Unmarshal(body.Data, &lessons))
	require.Empty(t, lessons)

	require.NoError(t, db.Create(&models.Enrollment{StudentID: student.ID, CourseID: course.ID}).Error)

	resp, body = doJSON(t, app, http.MethodGet, path, nil, student)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body.Data, &lessons))
	require.Len(t, lessons, 1)
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := setupAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
