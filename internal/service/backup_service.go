package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/edu-ccrm/ccrm-api/internal/models"
	appErrors "github.com/edu-ccrm/ccrm-api/pkg/errors"
	"github.com/edu-ccrm/ccrm-api/pkg/storage"
)

type backupInstructorLister interface {
	FindAll() []models.Instructor
}

// BackupService writes timestamped JSON snapshots of the registrar
// state to disk and prunes old ones. Each backup is a directory named
// backup_YYYYMMDD_HHMMSS holding one file per dataset.
type BackupService struct {
	students    exportStudentLister
	courses     exportCourseLister
	instructors backupInstructorLister
	ledger      exportGradeLister
	storage     *storage.LocalStorage
	keepLatest  int
	logger      *zap.Logger
}

// NewBackupService constructs the backup service.
func NewBackupService(students exportStudentLister, courses exportCourseLister, instructors backupInstructorLister, ledger exportGradeLister, store *storage.LocalStorage, keepLatest int, logger *zap.Logger) *BackupService {
	if keepLatest <= 0 {
		keepLatest = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{
		students:    students,
		courses:     courses,
		instructors: instructors,
		ledger:      ledger,
		storage:     store,
		keepLatest:  keepLatest,
		logger:      logger,
	}
}

// Create writes a new snapshot and returns its directory info.
func (s *BackupService) Create(ctx context.Context) (*models.BackupInfo, error) {
	name := "backup_" + time.Now().UTC().Format("20060102_150405")

	datasets := map[string]interface{}{
		"students.json":    s.students.FindAll(),
		"courses.json":     s.courses.FindAll(),
		"instructors.json": s.instructors.FindAll(),
		"grades.json":      s.ledger.Snapshot(),
	}
	for filename, payload := range datasets {
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode backup dataset")
		}
		if _, err := s.storage.Save(filepath.Join(name, filename), data); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write backup file")
		}
	}

	size, err := s.storage.DirSize(name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to size backup")
	}
	s.logger.Info("backup created", zap.String("backup", name), zap.Int64("size_bytes", size))

	if _, err := s.Cleanup(ctx); err != nil {
		s.logger.Warn("backup cleanup failed", zap.Error(err))
	}

	return &models.BackupInfo{
		Name:      name,
		SizeBytes: size,
		Size:      storage.FormatSize(size),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// List returns the existing snapshots, newest first.
func (s *BackupService) List(ctx context.Context) ([]models.BackupInfo, error) {
	dirs, err := s.storage.ListDirs()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list backups")
	}
	backups := make([]models.BackupInfo, 0, len(dirs))
	for _, dir := range dirs {
		backups = append(backups, models.BackupInfo{
			Name:      dir.Name,
			SizeBytes: dir.SizeBytes,
			Size:      storage.FormatSize(dir.SizeBytes),
			CreatedAt: dir.CreatedAt,
		})
	}
	return backups, nil
}

// TotalSize returns the combined size of all snapshots.
func (s *BackupService) TotalSize(ctx context.Context) (int64, string, error) {
	dirs, err := s.storage.ListDirs()
	if err != nil {
		return 0, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to size backups")
	}
	var total int64
	for _, dir := range dirs {
		total += dir.SizeBytes
	}
	return total, storage.FormatSize(total), nil
}

// Cleanup removes snapshots beyond the configured retention count,
// oldest first, and returns the removed names.
func (s *BackupService) Cleanup(ctx context.Context) ([]string, error) {
	dirs, err := s.storage.ListDirs()
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	if len(dirs) <= s.keepLatest {
		return nil, nil
	}
	removed := make([]string, 0, len(dirs)-s.keepLatest)
	for _, dir := range dirs[s.keepLatest:] {
		if err := s.storage.RemoveDir(dir.Name); err != nil {
			return removed, fmt.Errorf("remove backup %s: %w", dir.Name, err)
		}
		removed = append(removed, dir.Name)
	}
	return removed, nil
}
