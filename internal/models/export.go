package models

import "time"

// ExportType selects which dataset an export job renders.
type ExportType string

const (
	ExportStudents      ExportType = "STUDENTS"
	ExportCourses       ExportType = "COURSES"
	ExportEnrollments   ExportType = "ENROLLMENTS"
	ExportGrades        ExportType = "GRADES"
	ExportTranscriptPDF ExportType = "TRANSCRIPT_PDF"
)

// Valid reports whether the export type is one of the known datasets.
func (t ExportType) Valid() bool {
	switch t {
	case ExportStudents, ExportCourses, ExportEnrollments, ExportGrades, ExportTranscriptPDF:
		return true
	}
	return false
}

// ExportStatus tracks the lifecycle of an asynchronous export job.
type ExportStatus string

const (
	ExportStatusPending   ExportStatus = "PENDING"
	ExportStatusCompleted ExportStatus = "COMPLETED"
	ExportStatusFailed    ExportStatus = "FAILED"
)

// ExportJob records a queued export and, once finished, the file it
// produced relative to the export storage directory.
type ExportJob struct {
	ID          string       `json:"id"`
	Type        ExportType   `json:"type"`
	StudentID   string       `json:"student_id,omitempty"`
	Status      ExportStatus `json:"status"`
	File        string       `json:"file,omitempty"`
	Error       string       `json:"error,omitempty"`
	RequestedAt time.Time    `json:"requested_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// BackupInfo summarises one snapshot directory on disk.
type BackupInfo struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	Size      string    `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
