package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edu-ccrm/ccrm-api/api/swagger"
	"github.com/edu-ccrm/ccrm-api/internal/handler"
	"github.com/edu-ccrm/ccrm-api/internal/middleware"
	"github.com/edu-ccrm/ccrm-api/internal/repository"
	"github.com/edu-ccrm/ccrm-api/internal/service"
	"github.com/edu-ccrm/ccrm-api/pkg/config"
	"github.com/edu-ccrm/ccrm-api/pkg/logger"
	corsmiddleware "github.com/edu-ccrm/ccrm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edu-ccrm/ccrm-api/pkg/middleware/requestid"
	"github.com/edu-ccrm/ccrm-api/pkg/storage"
)

// @title CCRM API
// @version 0.1.0
// @description Campus course and records management service
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()

	students := repository.NewStudentRepository()
	courses := repository.NewCourseRepository()
	instructors := repository.NewInstructorRepository()
	ledger := repository.NewGradeLedger()

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		log.Fatalf("failed to init export storage: %v", err)
	}
	backupStore, err := storage.NewLocalStorage(cfg.Backups.Dir)
	if err != nil {
		log.Fatalf("failed to init backup storage: %v", err)
	}

	metricsSvc := service.NewMetricsService()
	studentSvc := service.NewStudentService(students, courses, ledger, validate, logr)
	courseSvc := service.NewCourseService(courses, instructors, validate, logr)
	instructorSvc := service.NewInstructorService(instructors, courses, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(students, courses, ledger, studentSvc, cfg.Academics.MaxCreditsPerSemester, metricsSvc, validate, logr)
	transcriptSvc := service.NewTranscriptService(students, courses, ledger, cfg.Academics, logr)
	exportSvc := service.NewExportService(students, courses, ledger, transcriptSvc, exportStore, service.ExportServiceConfig{
		WorkerConcurrency: cfg.Exports.WorkerConcurrency,
		WorkerRetries:     cfg.Exports.WorkerRetries,
		WorkerRetryDelay:  cfg.Exports.WorkerRetryDelay,
	}, logr)
	backupSvc := service.NewBackupService(students, courses, instructors, ledger, backupStore, cfg.Backups.KeepLatest, logr)
	importSvc := service.NewImportService(studentSvc, courseSvc, logr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	exportSvc.Start(ctx)
	defer exportSvc.Stop()

	studentHandler := handler.NewStudentHandler(studentSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	instructorHandler := handler.NewInstructorHandler(instructorSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	transcriptHandler := handler.NewTranscriptHandler(transcriptSvc, exportSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	importHandler := handler.NewImportHandler(importSvc)
	backupHandler := handler.NewBackupHandler(backupSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.GET("/students", studentHandler.List)
	api.POST("/students", studentHandler.Create)
	api.GET("/students/:id", studentHandler.Get)
	api.PUT("/students/:id", studentHandler.Update)
	api.DELETE("/students/:id", studentHandler.Delete)
	api.POST("/students/:id/deactivate", studentHandler.Deactivate)
	api.GET("/students/:id/gpa", studentHandler.GPA)

	api.GET("/courses", courseHandler.List)
	api.POST("/courses", courseHandler.Create)
	api.GET("/courses/:code", courseHandler.Get)
	api.PUT("/courses/:code", courseHandler.Update)
	api.DELETE("/courses/:code", courseHandler.Delete)
	api.POST("/courses/:code/deactivate", courseHandler.Deactivate)
	api.PUT("/courses/:code/instructor", courseHandler.AssignInstructor)
	api.DELETE("/courses/:code/instructor", courseHandler.UnassignInstructor)

	api.GET("/instructors", instructorHandler.List)
	api.POST("/instructors", instructorHandler.Create)
	api.GET("/instructors/:id", instructorHandler.Get)
	api.PUT("/instructors/:id", instructorHandler.Update)
	api.DELETE("/instructors/:id", instructorHandler.Delete)
	api.GET("/instructors/:id/courses", instructorHandler.AssignedCourses)

	api.POST("/enrollments", enrollmentHandler.Enroll)
	api.GET("/students/:id/enrollments", enrollmentHandler.EnrolledCourses)
	api.DELETE("/students/:id/enrollments/:code", enrollmentHandler.Unenroll)
	api.GET("/students/:id/credits", enrollmentHandler.TotalCredits)
	api.GET("/students/:id/eligibility/:code", enrollmentHandler.CanEnroll)
	api.GET("/courses/:code/students", enrollmentHandler.EnrolledStudents)

	api.POST("/grades", enrollmentHandler.RecordGrade)
	api.GET("/students/:id/grades", enrollmentHandler.StudentGrades)
	api.GET("/students/:id/grades/:code", enrollmentHandler.StudentGrade)
	api.GET("/courses/:code/grades/distribution", enrollmentHandler.GradeDistribution)
	api.GET("/courses/:code/grades/average", enrollmentHandler.AverageGrade)
	api.GET("/courses/:code/grades/top", enrollmentHandler.TopPerformers)

	api.GET("/students/:id/transcript", transcriptHandler.Transcript)
	api.GET("/students/:id/transcript/pdf", transcriptHandler.TranscriptPDF)
	api.GET("/students/:id/transcript/progression", transcriptHandler.GPAProgression)
	api.GET("/students/:id/transcript/completed", transcriptHandler.CompletedCourses)

	api.GET("/exports/students", exportHandler.Students)
	api.GET("/exports/courses", exportHandler.Courses)
	api.GET("/exports/enrollments", exportHandler.Enrollments)
	api.GET("/exports/grades", exportHandler.Grades)
	api.POST("/exports/jobs", exportHandler.Enqueue)
	api.GET("/exports/jobs", exportHandler.Jobs)
	api.GET("/exports/jobs/:id", exportHandler.Job)
	api.GET("/exports/jobs/:id/download", exportHandler.Download)
	api.POST("/exports/cleanup", exportHandler.Cleanup(cfg.Exports.RetentionTTL))

	api.POST("/imports/students", importHandler.Students)
	api.POST("/imports/courses", importHandler.Courses)

	api.POST("/backups", backupHandler.Create)
	api.GET("/backups", backupHandler.List)
	api.GET("/backups/size", backupHandler.TotalSize)
	api.POST("/backups/cleanup", backupHandler.Cleanup)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
