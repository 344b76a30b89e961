package models

import "time"

// Academic standing labels derived from cumulative GPA.
const (
	StandingDeansList = "DEANS_LIST"
	StandingGood      = "GOOD_STANDING"
	StandingProbation = "PROBATION"
)

// TranscriptLine is one course row on a transcript. Grade and Points
// are nil while the course is enrolled but not yet graded.
type TranscriptLine struct {
	CourseCode string   `json:"course_code"`
	Title      string   `json:"title"`
	Credits    int      `json:"credits"`
	Semester   Semester `json:"semester"`
	Grade      *Grade   `json:"grade,omitempty"`
	Points     *float64 `json:"points,omitempty"`
}

// Transcript is the full academic record of a student.
type Transcript struct {
	StudentID          string               `json:"student_id"`
	RegNo              string               `json:"reg_no"`
	FullName           string               `json:"full_name"`
	Lines              []TranscriptLine     `json:"lines"`
	SemesterGPAs       map[Semester]float64 `json:"semester_gpas"`
	CumulativeGPA      float64              `json:"cumulative_gpa"`
	CreditsCompleted   int                  `json:"credits_completed"`
	CreditsPending     int                  `json:"credits_pending"`
	Standing           string               `json:"standing"`
	EligibleToGraduate bool                 `json:"eligible_to_graduate"`
	GeneratedAt        time.Time            `json:"generated_at"`
}
