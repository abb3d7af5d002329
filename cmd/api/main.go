package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/elearnhq/elearn-api/internal/config"
	"github.com/elearnhq/elearn-api/internal/database"
	"github.com/elearnhq/elearn-api/internal/handler"
	"github.com/elearnhq/elearn-api/internal/middleware"
	"github.com/elearnhq/elearn-api/internal/models"
	"github.com/elearnhq/elearn-api/internal/repository"
	"github.com/elearnhq/elearn-api/internal/router"
	"github.com/elearnhq/elearn-api/internal/service"
	cloud "github.com/elearnhq/elearn-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
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
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

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

	statsService := service.NewCourseStatsService(ratingRepo, enrollmentRepo, redisClient, cfg.StatsCacheTTL, logger)
	courseService := service.NewCourseService(courseRepo, categoryRepo, levelRepo, statsService, validate, logger)
	catalogService := service.NewCatalogService(categoryRepo, levelRepo, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo, statsService, validate, logger)
	lessonService := service.NewLessonService(lessonRepo, lessonFileRepo, courseRepo, enrollmentRepo, uploader, validate, logger)
	quizService := service.NewQuizService(quizRepo, questionRepo, lessonRepo, courseRepo, enrollmentRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, quizRepo, courseRepo, validate, logger)
	ratingService := service.NewRatingService(ratingRepo, enrollmentRepo, courseRepo, statsService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		CatalogHandler:    handler.NewCatalogHandler(catalogService, logger),
		LessonHandler:     handler.NewLessonHandler(lessonService, logger),
		QuizHandler:       handler.NewQuizHandler(quizService, logger),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, logger),
		RatingHandler:     handler.NewRatingHandler(ratingService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		OptionalJWT:       middleware.JWTOptional(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
