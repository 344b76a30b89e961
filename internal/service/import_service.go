package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/edu-ccrm/ccrm-api/internal/models"
	"github.com/edu-ccrm/ccrm-api/pkg/export"
)

type studentCreator interface {
	Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error)
}

type courseCreator interface {
	Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error)
}

// ImportResult summarises one CSV import run. Rows with too few
// columns are skipped silently; rows rejected by validation are
// counted as failures with a per-row reason.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportService loads students and courses from CSV files. Each row
// goes through the same create path as the API, so duplicates and
// invalid payloads are rejected consistently.
type ImportService struct {
	students studentCreator
	courses  courseCreator
	logger   *zap.Logger
}

// NewImportService constructs the import service.
func NewImportService(students studentCreator, courses courseCreator, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{students: students, courses: courses, logger: logger}
}

// ImportStudents reads student rows with the columns
// id, regNo, firstName, lastName, email.
func (s *ImportService) ImportStudents(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, err := export.ReadCSV(r)
	if err != nil {
		return nil, err
	}
	result := &ImportResult{}
	for i, row := range rows {
		if len(row) < 5 {
			result.Skipped++
			continue
		}
		req := CreateStudentRequest{
			ID:       strings.TrimSpace(row[0]),
			RegNo:    strings.TrimSpace(row[1]),
			FullName: strings.TrimSpace(row[2] + " " + row[3]),
			Email:    strings.TrimSpace(row[4]),
		}
		if _, err := s.students.Create(ctx, req); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		result.Imported++
	}
	s.logger.Info("students imported",
		zap.Int("imported", result.Imported), zap.Int("skipped", result.Skipped), zap.Int("failed", result.Failed))
	return result, nil
}

// ImportCourses reads course rows with the columns
// code, title, credits, instructor, semester, department. The
// instructor column carries free text in legacy files and is ignored;
// instructors are assigned through the API after import.
func (s *ImportService) ImportCourses(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, err := export.ReadCSV(r)
	if err != nil {
		return nil, err
	}
	result := &ImportResult{}
	for i, row := range rows {
		if len(row) < 6 {
			result.Skipped++
			continue
		}
		credits, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid credits %q", i+2, row[2]))
			continue
		}
		req := CreateCourseRequest{
			Code:       strings.TrimSpace(row[0]),
			Title:      strings.TrimSpace(row[1]),
			Credits:    credits,
			Semester:   strings.TrimSpace(row[4]),
			Department: strings.TrimSpace(row[5]),
		}
		if _, err := s.courses.Create(ctx, req); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		result.Imported++
	}
	s.logger.Info("courses imported",
		zap.Int("imported", result.Imported), zap.Int("skipped", result.Skipped), zap.Int("failed", result.Failed))
	return result, nil
}
