package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"github.com/zenhealth/pharmacy/internal/config"
	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
)

var (
	ErrBackupUnavailable = errors.New("backup storage is not configured")
)

// BackupService dumps the database and uploads the dump to object
// storage. The job runs in the background; its outcome is written to the
// tracking record, never returned to a caller.
type BackupService struct {
	repo   *repository.BackupRepository
	minio  *minio.Client
	cfg    *config.Config
	logger *zap.Logger
}

func NewBackupService(repo *repository.BackupRepository, minioClient *minio.Client, cfg *config.Config, logger *zap.Logger) *BackupService {
	return &BackupService{
		repo:   repo,
		minio:  minioClient,
		cfg:    cfg,
		logger: logger,
	}
}

// Start creates a tracking record and launches the backup job.
func (s *BackupService) Start(ctx context.Context, userID string) (*entity.BackupRun, error) {
	if s.minio == nil {
		return nil, ErrBackupUnavailable
	}

	now := time.Now()
	run := &entity.BackupRun{
		ID:        uuid.New().String()[:32],
		Filename:  fmt.Sprintf("%s_%s.dump", s.cfg.Database.DBName, now.Format("20060102_150405")),
		Status:    entity.BackupStatusRunning,
		StartedBy: userID,
		StartedAt: now,
	}

	if err := s.repo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create backup run: %w", err)
	}

	go s.run(run)

	return run, nil
}

// List pages backup runs.
func (s *BackupService) List(ctx context.Context, page, pageSize int) ([]entity.BackupRun, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize)
}

// Get fetches one backup run.
func (s *BackupService) Get(ctx context.Context, id string) (*entity.BackupRun, error) {
	return s.repo.FindByID(ctx, id)
}

// run executes pg_dump and uploads the result. Any failure is recorded
// on the tracking row.
func (s *BackupService) run(run *entity.BackupRun) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	tempDir := s.cfg.Backup.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	dumpPath := filepath.Join(tempDir, run.Filename)
	defer os.Remove(dumpPath)

	if err := s.dump(ctx, dumpPath); err != nil {
		s.fail(ctx, run, fmt.Errorf("pg_dump: %w", err))
		return
	}

	info, err := os.Stat(dumpPath)
	if err != nil {
		s.fail(ctx, run, fmt.Errorf("stat dump: %w", err))
		return
	}

	objectKey := fmt.Sprintf("backups/%s/%s", run.StartedAt.Format("2006/01"), run.Filename)
	_, err = s.minio.FPutObject(ctx, s.cfg.MinIO.Bucket, objectKey, dumpPath, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		s.fail(ctx, run, fmt.Errorf("upload: %w", err))
		return
	}

	if err := s.repo.MarkCompleted(ctx, run.ID, objectKey, info.Size()); err != nil {
		s.logger.Error("Failed to mark backup completed", zap.String("run_id", run.ID), zap.Error(err))
		return
	}

	s.logger.Info("Backup completed",
		zap.String("run_id", run.ID),
		zap.String("object_key", objectKey),
		zap.Int64("size_bytes", info.Size()),
	)
}

func (s *BackupService) dump(ctx context.Context, dumpPath string) error {
	db := s.cfg.Database
	pgDump := s.cfg.Backup.PgDumpPath
	if pgDump == "" {
		pgDump = "pg_dump"
	}

	cmd := exec.CommandContext(ctx, pgDump,
		"-h", db.Host,
		"-p", fmt.Sprintf("%d", db.Port),
		"-U", db.User,
		"-d", db.DBName,
		"-F", "c",
		"-f", dumpPath,
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+db.Password)

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, string(out))
	}
	return nil
}

func (s *BackupService) fail(ctx context.Context, run *entity.BackupRun, cause error) {
	s.logger.Error("Backup failed", zap.String("run_id", run.ID), zap.Error(cause))
	if err := s.repo.MarkFailed(ctx, run.ID, cause.Error()); err != nil {
		s.logger.Error("Failed to mark backup failed", zap.String("run_id", run.ID), zap.Error(err))
	}
}
