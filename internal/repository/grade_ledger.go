package repository

import (
	"sync"

	"github.com/edu-ccrm/ccrm-api/internal/models"
)

// GradeLedger records letter grades per (student, course) pair. An
// entry may exist only while the student is enrolled in the course;
// enrollment code is responsible for removing entries on unenrollment.
type GradeLedger struct {
	mu     sync.RWMutex
	grades map[string]map[string]models.Grade
}

// NewGradeLedger constructs an empty ledger.
func NewGradeLedger() *GradeLedger {
	return &GradeLedger{grades: make(map[string]map[string]models.Grade)}
}

// Record stores (or overwrites) the grade for the pair.
func (l *GradeLedger) Record(studentID, courseCode string, grade models.Grade) {
	l.mu.Lock()
	defer l.mu.Unlock()
	byCourse, ok := l.grades[studentID]
	if !ok {
		byCourse = make(map[string]models.Grade)
		l.grades[studentID] = byCourse
	}
	byCourse[courseCode] = grade
}

// Remove deletes the grade entry for the pair, if any.
func (l *GradeLedger) Remove(studentID, courseCode string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if byCourse, ok := l.grades[studentID]; ok {
		delete(byCourse, courseCode)
		if len(byCourse) == 0 {
			delete(l.grades, studentID)
		}
	}
}

// RemoveStudent drops every entry belonging to the student.
func (l *GradeLedger) RemoveStudent(studentID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.grades, studentID)
}

// Grade returns the recorded grade for the pair and whether one exists.
func (l *GradeLedger) Grade(studentID, courseCode string) (models.Grade, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	g, ok := l.grades[studentID][courseCode]
	return g, ok
}

// StudentGrades returns a copy of the student's courseCode→grade map.
func (l *GradeLedger) StudentGrades(studentID string) map[string]models.Grade {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]models.Grade, len(l.grades[studentID]))
	for code, g := range l.grades[studentID] {
		out[code] = g
	}
	return out
}

// CourseGrades returns studentID→grade for every grade recorded
// against the course code.
func (l *GradeLedger) CourseGrades(courseCode string) map[string]models.Grade {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]models.Grade)
	for studentID, byCourse := range l.grades {
		if g, ok := byCourse[courseCode]; ok {
			out[studentID] = g
		}
	}
	return out
}

// Snapshot returns a deep copy of the whole ledger, for export and
// backup consumers.
func (l *GradeLedger) Snapshot() map[string]map[string]models.Grade {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]map[string]models.Grade, len(l.grades))
	for studentID, byCourse := range l.grades {
		inner := make(map[string]models.Grade, len(byCourse))
		for code, g := range byCourse {
			inner[code] = g
		}
		out[studentID] = inner
	}
	return out
}
