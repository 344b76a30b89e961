package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-ccrm/ccrm-api/internal/models"
)

func TestGradeLedgerRecordAndRemove(t *testing.T) {
	ledger := NewGradeLedger()

	ledger.Record("s-1", "CS101", models.GradeB)
	ledger.Record("s-1", "CS101", models.GradeA)

	grade, ok := ledger.Grade("s-1", "CS101")
	require.True(t, ok)
	assert.Equal(t, models.GradeA, grade)

	_, ok = ledger.Grade("s-1", "MA201")
	assert.False(t, ok)

	ledger.Remove("s-1", "CS101")
	_, ok = ledger.Grade("s-1", "CS101")
	assert.False(t, ok)
	assert.Empty(t, ledger.StudentGrades("s-1"))
}

func TestGradeLedgerRemoveStudent(t *testing.T) {
	ledger := NewGradeLedger()
	ledger.Record("s-1", "CS101", models.GradeA)
	ledger.Record("s-1", "MA201", models.GradeB)
	ledger.Record("s-2", "CS101", models.GradeC)

	ledger.RemoveStudent("s-1")

	assert.Empty(t, ledger.StudentGrades("s-1"))
	byStudent := ledger.CourseGrades("CS101")
	require.Len(t, byStudent, 1)
	assert.Equal(t, models.GradeC, byStudent["s-2"])
}

func TestGradeLedgerSnapshotIsDeepCopy(t *testing.T) {
	ledger := NewGradeLedger()
	ledger.Record("s-1", "CS101", models.GradeA)

	snapshot := ledger.Snapshot()
	snapshot["s-1"]["CS101"] = models.GradeF
	snapshot["s-2"] = map[string]models.Grade{"MA201": models.GradeD}

	grade, ok := ledger.Grade("s-1", "CS101")
	require.True(t, ok)
	assert.Equal(t, models.GradeA, grade)
	_, ok = ledger.Grade("s-2", "MA201")
	assert.False(t, ok)
}
