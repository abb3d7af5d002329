package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/elearnhq/elearn-api/internal/config"
	"github.com/elearnhq/elearn-api/internal/handler"
	"github.com/elearnhq/elearn-api/internal/middleware"
	"github.com/elearnhq/elearn-api/internal/models"
	"github.com/elearnhq/elearn-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CourseHandler     *handler.CourseHandler
	CatalogHandler    *handler.CatalogHandler
	LessonHandler     *handler.LessonHandler
	QuizHandler       *handler.QuizHandler
	EnrollmentHandler *handler.EnrollmentHandler
	RatingHandler     *handler.RatingHandler
	SubmissionHandler *handler.SubmissionHandler
	JWTMiddleware     fiber.Handler
	OptionalJWT       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided middlewares, or no-ops if nil
	authenticated := deps.JWTMiddleware
	if authenticated == nil {
		authenticated = func(c *fiber.Ctx) error { return c.Next() }
	}
	optional := deps.OptionalJWT
	if optional == nil {
		optional = func(c *fiber.Ctx) error { return c.Next() }
	}

	writeLimit := middleware.RateLimit("api-write", 30, time.Minute)
	courseViewLimit := middleware.RateLimit("course-view", 5, time.Minute)

	// Catalog writes are a pure role check, so the gate lives on the route.
	instructorOnly := middleware.RequireRole(models.RoleInstructor)
	if deps.CatalogHandler != nil {
		deps.CatalogHandler.RegisterCategories(api.Group("/categories"), authenticated, instructorOnly)
		deps.CatalogHandler.RegisterLevels(api.Group("/levels"), authenticated, instructorOnly)
	}

	// Courses and their nested resources
	if deps.CourseHandler != nil {
		courses := api.Group("/courses")
		deps.CourseHandler.Register(courses, courseViewLimit, authenticated)

		if deps.EnrollmentHandler != nil {
			enrollments := courses.Group("/:courseID/enrollments", authenticated, writeLimit)
			deps.EnrollmentHandler.Register(enrollments)
		}

		if deps.RatingHandler != nil {
			ratings := courses.Group("/:courseID/ratings", optional)
			deps.RatingHandler.Register(ratings, authenticated)
		}

		if deps.LessonHandler != nil {
			// Optional auth lets enrollment gating see who is asking
			// while keeping the listings reachable anonymously.
			lessons := courses.Group("/:courseID/lessons", optional)
			deps.LessonHandler.Register(lessons, authenticated)
		}
	}

	// Lesson-scoped resources
	if deps.LessonHandler != nil {
		files := api.Group("/lessons/:lessonID/files", optional)
		deps.LessonHandler.RegisterFiles(files, authenticated)
	}

	if deps.QuizHandler != nil {
		lessonQuizzes := api.Group("/lessons/:lessonID/quizzes", optional)
		quizzes := api.Group("/quizzes/:quizID", optional)
		deps.QuizHandler.Register(lessonQuizzes, quizzes, authenticated)
		deps.QuizHandler.RegisterQuestions(api.Group("/quizzes/:quizID/questions", optional), authenticated)

		if deps.SubmissionHandler != nil {
			submissions := api.Group("/quizzes/:quizID/submissions", writeLimit)
			deps.SubmissionHandler.Register(submissions, authenticated)
		}
	}
}
