package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edu-ccrm/ccrm-api/internal/models"
	appErrors "github.com/edu-ccrm/ccrm-api/pkg/errors"
	"github.com/edu-ccrm/ccrm-api/pkg/export"
	"github.com/edu-ccrm/ccrm-api/pkg/jobs"
	"github.com/edu-ccrm/ccrm-api/pkg/storage"
)

type exportStudentLister interface {
	FindAll() []models.Student
}

type exportCourseLister interface {
	FindAll() []models.Course
}

type exportGradeLister interface {
	Snapshot() map[string]map[string]models.Grade
}

type transcriptBuilder interface {
	Transcript(ctx context.Context, studentID string) (*models.Transcript, error)
}

// ExportService renders registrar data to CSV and PDF, either
// synchronously or through a background job queue that writes the
// result to local storage for later download.
type ExportService struct {
	students    exportStudentLister
	courses     exportCourseLister
	ledger      exportGradeLister
	transcripts transcriptBuilder

	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	storage *storage.LocalStorage
	queue   *jobs.Queue
	logger  *zap.Logger

	mu   sync.RWMutex
	reg  map[string]models.ExportJob
	jobs []string
}

// ExportServiceConfig carries the queue tuning for the export worker.
type ExportServiceConfig struct {
	WorkerConcurrency int
	WorkerRetries     int
	WorkerRetryDelay  time.Duration
}

// NewExportService constructs the export service and its job queue.
// Call Start before enqueueing asynchronous exports.
func NewExportService(students exportStudentLister, courses exportCourseLister, ledger exportGradeLister, transcripts transcriptBuilder, store *storage.LocalStorage, cfg ExportServiceConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		students:    students,
		courses:     courses,
		ledger:      ledger,
		transcripts: transcripts,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		storage:     store,
		logger:      logger,
		reg:         make(map[string]models.ExportJob),
	}
	s.queue = jobs.NewQueue("exports", s.process, jobs.QueueConfig{
		Workers:     cfg.WorkerConcurrency,
		MaxRetries:  cfg.WorkerRetries,
		RetryDelay:  cfg.WorkerRetryDelay,
		OnExhausted: s.exhausted,
		Logger:      logger,
	})
	return s
}

// Start launches the export workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// StudentsCSV renders the full student directory.
func (s *ExportService) StudentsCSV(ctx context.Context) ([]byte, error) {
	return s.csv.Render(s.studentsDataset())
}

// CoursesCSV renders the full course catalog.
func (s *ExportService) CoursesCSV(ctx context.Context) ([]byte, error) {
	return s.csv.Render(s.coursesDataset())
}

// EnrollmentsCSV renders one row per student/course pairing.
func (s *ExportService) EnrollmentsCSV(ctx context.Context) ([]byte, error) {
	return s.csv.Render(s.enrollmentsDataset())
}

// GradesCSV renders every recorded grade with its point value.
func (s *ExportService) GradesCSV(ctx context.Context) ([]byte, error) {
	return s.csv.Render(s.gradesDataset())
}

// TranscriptPDF renders a student's transcript as a PDF document.
func (s *ExportService) TranscriptPDF(ctx context.Context, studentID string) ([]byte, error) {
	transcript, err := s.transcripts.Transcript(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.renderTranscript(transcript)
}

// Enqueue registers a pending export job and hands it to the worker
// queue. Transcript exports require a student id.
func (s *ExportService) Enqueue(ctx context.Context, exportType models.ExportType, studentID string) (*models.ExportJob, error) {
	if !exportType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown export type")
	}
	if exportType == models.ExportTranscriptPDF && studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "transcript export requires a student id")
	}
	job := models.ExportJob{
		ID:          uuid.NewString(),
		Type:        exportType,
		StudentID:   studentID,
		Status:      models.ExportStatusPending,
		RequestedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.reg[job.ID] = job
	s.jobs = append(s.jobs, job.ID)
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(exportType)}); err != nil {
		s.fail(job.ID, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export")
	}
	return &job, nil
}

// Job returns the job by id.
func (s *ExportService) Job(ctx context.Context, id string) (*models.ExportJob, error) {
	s.mu.RLock()
	job, ok := s.reg[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return &job, nil
}

// Jobs returns all known jobs, newest first.
func (s *ExportService) Jobs(ctx context.Context) []models.ExportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ExportJob, 0, len(s.jobs))
	for i := len(s.jobs) - 1; i >= 0; i-- {
		out = append(out, s.reg[s.jobs[i]])
	}
	return out
}

// OpenResult opens the stored file of a completed job.
func (s *ExportService) OpenResult(ctx context.Context, id string) (*os.File, *models.ExportJob, error) {
	job, err := s.Job(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if job.Status != models.ExportStatusCompleted {
		return nil, nil, appErrors.Clone(appErrors.ErrInvalidState, "export job is not completed")
	}
	file, err := s.storage.Open(job.File)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return file, job, nil
}

// CleanupExpired removes export files older than the TTL.
func (s *ExportService) CleanupExpired(ttl time.Duration) ([]string, error) {
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	s.mu.RLock()
	record, ok := s.reg[job.ID]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("export job %s not registered", job.ID)
	}

	// A failed attempt stays PENDING: the queue retries it, and only
	// exhaustion marks the job FAILED. Pollers never see a terminal
	// status that later changes.
	data, filename, err := s.render(ctx, record)
	if err != nil {
		return err
	}
	if _, err := s.storage.Save(filename, data); err != nil {
		return err
	}

	now := time.Now().UTC()
	s.mu.Lock()
	record = s.reg[job.ID]
	record.Status = models.ExportStatusCompleted
	record.File = filename
	record.Error = ""
	record.CompletedAt = &now
	s.reg[job.ID] = record
	s.mu.Unlock()

	s.logger.Info("export completed", zap.String("job_id", job.ID), zap.String("file", filename))
	return nil
}

func (s *ExportService) render(ctx context.Context, job models.ExportJob) ([]byte, string, error) {
	stamp := time.Now().UTC().Format("20060102_150405")
	switch job.Type {
	case models.ExportStudents:
		data, err := s.StudentsCSV(ctx)
		return data, fmt.Sprintf("students_%s.csv", stamp), err
	case models.ExportCourses:
		data, err := s.CoursesCSV(ctx)
		return data, fmt.Sprintf("courses_%s.csv", stamp), err
	case models.ExportEnrollments:
		data, err := s.EnrollmentsCSV(ctx)
		return data, fmt.Sprintf("enrollments_%s.csv", stamp), err
	case models.ExportGrades:
		data, err := s.GradesCSV(ctx)
		return data, fmt.Sprintf("grades_%s.csv", stamp), err
	case models.ExportTranscriptPDF:
		data, err := s.TranscriptPDF(ctx, job.StudentID)
		return data, fmt.Sprintf("transcript_%s_%s.pdf", job.StudentID, stamp), err
	default:
		return nil, "", fmt.Errorf("unknown export type %q", job.Type)
	}
}

func (s *ExportService) exhausted(job jobs.Job, err error) {
	s.fail(job.ID, err)
	s.logger.Error("export failed", zap.String("job_id", job.ID), zap.Error(err))
}

func (s *ExportService) fail(id string, err error) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.reg[id]
	if !ok {
		return
	}
	record.Status = models.ExportStatusFailed
	record.Error = err.Error()
	record.CompletedAt = &now
	s.reg[id] = record
}

func (s *ExportService) studentsDataset() export.Dataset {
	students := s.students.FindAll()
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	rows := make([][]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, []string{
			st.ID, st.RegNo, st.FullName, st.Email,
			strconv.FormatBool(st.Active),
			strconv.FormatFloat(st.GPA, 'f', 2, 64),
		})
	}
	return export.Dataset{
		Headers: []string{"id", "reg_no", "full_name", "email", "active", "gpa"},
		Rows:    rows,
	}
}

func (s *ExportService) coursesDataset() export.Dataset {
	courses := s.courses.FindAll()
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{
			c.Code, c.Title, strconv.Itoa(c.Credits),
			string(c.Semester), c.Department, c.InstructorID,
			strconv.FormatBool(c.Active),
		})
	}
	return export.Dataset{
		Headers: []string{"code", "title", "credits", "semester", "department", "instructor_id", "active"},
		Rows:    rows,
	}
}

func (s *ExportService) enrollmentsDataset() export.Dataset {
	students := s.students.FindAll()
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	var rows [][]string
	for _, st := range students {
		codes := append([]string(nil), st.EnrolledCourses...)
		sort.Strings(codes)
		for _, code := range codes {
			rows = append(rows, []string{st.ID, code})
		}
	}
	return export.Dataset{
		Headers: []string{"student_id", "course_code"},
		Rows:    rows,
	}
}

func (s *ExportService) gradesDataset() export.Dataset {
	snapshot := s.ledger.Snapshot()
	studentIDs := make([]string, 0, len(snapshot))
	for id := range snapshot {
		studentIDs = append(studentIDs, id)
	}
	sort.Strings(studentIDs)
	var rows [][]string
	for _, id := range studentIDs {
		codes := make([]string, 0, len(snapshot[id]))
		for code := range snapshot[id] {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			grade := snapshot[id][code]
			rows = append(rows, []string{
				id, code, string(grade),
				strconv.FormatFloat(grade.Points(), 'f', 1, 64),
			})
		}
	}
	return export.Dataset{
		Headers: []string{"student_id", "course_code", "grade", "points"},
		Rows:    rows,
	}
}

func (s *ExportService) renderTranscript(transcript *models.Transcript) ([]byte, error) {
	fields := []export.Field{
		{Label: "Student", Value: transcript.FullName},
		{Label: "Registration No", Value: transcript.RegNo},
		{Label: "Cumulative GPA", Value: strconv.FormatFloat(transcript.CumulativeGPA, 'f', 2, 64)},
		{Label: "Standing", Value: transcript.Standing},
		{Label: "Credits Completed", Value: strconv.Itoa(transcript.CreditsCompleted)},
		{Label: "Credits Pending", Value: strconv.Itoa(transcript.CreditsPending)},
	}
	rows := make([][]string, 0, len(transcript.Lines))
	for _, line := range transcript.Lines {
		grade := "-"
		points := "-"
		if line.Grade != nil {
			grade = string(*line.Grade)
			points = strconv.FormatFloat(*line.Points, 'f', 1, 64)
		}
		rows = append(rows, []string{
			line.CourseCode, line.Title, strconv.Itoa(line.Credits),
			string(line.Semester), grade, points,
		})
	}
	return s.pdf.Render("Academic Transcript", fields, export.Dataset{
		Headers: []string{"Code", "Title", "Credits", "Semester", "Grade", "Points"},
		Rows:    rows,
	})
}
