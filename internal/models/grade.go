package models

import "fmt"

// Grade is a letter grade with a fixed grade-point value.
type Grade string

// Letter grades. S carries the 4.3 points that set the GPA ceiling.
const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

var gradePoints = map[Grade]float64{
	GradeS: 4.3,
	GradeA: 4.0,
	GradeB: 3.0,
	GradeC: 2.0,
	GradeD: 1.0,
	GradeF: 0.0,
}

// Points returns the grade-point value of the letter grade.
func (g Grade) Points() float64 {
	return gradePoints[g]
}

// Valid reports whether the letter is part of the grading scale.
func (g Grade) Valid() bool {
	_, ok := gradePoints[g]
	return ok
}

// Passing reports whether the grade counts as a pass.
func (g Grade) Passing() bool {
	return g.Valid() && g != GradeF
}

// ParseGrade converts a raw letter into a Grade.
func ParseGrade(raw string) (Grade, error) {
	g := Grade(raw)
	if !g.Valid() {
		return "", fmt.Errorf("unknown grade %q", raw)
	}
	return g, nil
}

// CourseGrade pairs a course with the grade recorded for it.
type CourseGrade struct {
	Course Course `json:"course"`
	Grade  Grade  `json:"grade"`
}

// RankedStudent is a top-performer row for a course.
type RankedStudent struct {
	Student Student `json:"student"`
	Grade   Grade   `json:"grade"`
	Points  float64 `json:"points"`
}
