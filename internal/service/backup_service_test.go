package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-ccrm/ccrm-api/internal/models"
	"github.com/edu-ccrm/ccrm-api/pkg/storage"
)

func newBackupFixture(t *testing.T, keepLatest int) (*registrar, *BackupService, string) {
	t.Helper()
	r := newRegistrar(21)
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	svc := NewBackupService(r.students, r.courses, r.instructors, r.ledger, store, keepLatest, nil)
	return r, svc, dir
}

func TestBackupCreateWritesDatasets(t *testing.T) {
	r, svc, dir := newBackupFixture(t, 5)
	r.mustCreateStudent(t, "s-1")
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)
	r.mustEnroll(t, "s-1", "CS101")
	r.mustRecordGrade(t, "s-1", "CS101", "A")

	backup, err := svc.Create(context.Background())
	require.NoError(t, err)
	assert.True(t, backup.SizeBytes > 0)
	assert.NotEmpty(t, backup.Size)

	for _, filename := range []string{"students.json", "courses.json", "instructors.json", "grades.json"} {
		_, err := os.Stat(filepath.Join(dir, backup.Name, filename))
		require.NoError(t, err, filename)
	}

	data, err := os.ReadFile(filepath.Join(dir, backup.Name, "students.json"))
	require.NoError(t, err)
	var students []models.Student
	require.NoError(t, json.Unmarshal(data, &students))
	require.Len(t, students, 1)
	assert.Equal(t, "s-1", students[0].ID)
}

func TestBackupListAndTotalSize(t *testing.T) {
	r, svc, _ := newBackupFixture(t, 5)
	r.mustCreateStudent(t, "s-1")

	_, err := svc.Create(context.Background())
	require.NoError(t, err)

	backups, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, backups, 1)

	total, human, err := svc.TotalSize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, backups[0].SizeBytes, total)
	assert.NotEmpty(t, human)
}

func TestBackupCleanupKeepsLatest(t *testing.T) {
	r, svc, dir := newBackupFixture(t, 2)
	r.mustCreateStudent(t, "s-1")

	// Snapshot names carry second precision, so fabricate older
	// directories instead of sleeping between creates.
	for _, name := range []string{"backup_20240101_000000", "backup_20240102_000000"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, name), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name, "students.json"), []byte("[]"), 0o644))
	}

	_, err := svc.Create(context.Background())
	require.NoError(t, err)

	backups, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, backups, 2)
}
