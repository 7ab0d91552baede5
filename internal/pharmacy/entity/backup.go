package entity

import (
	"time"
)

// Backup run statuses
const (
	BackupStatusRunning   = "running"
	BackupStatusCompleted = "completed"
	BackupStatusFailed    = "failed"
)

// BackupRun tracks one database backup job. The job runs in the
// background and writes its outcome here instead of returning it.
type BackupRun struct {
	ID         string     `json:"id" gorm:"primaryKey;size:32"`
	Filename   string     `json:"filename" gorm:"size:128;not null"`
	ObjectKey  string     `json:"object_key" gorm:"size:256"`
	SizeBytes  int64      `json:"size_bytes"`
	Status     string     `json:"status" gorm:"size:16;not null;default:running"`
	Error      string     `json:"error" gorm:"type:text"`
	StartedBy  string     `json:"started_by" gorm:"size:32"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

func (BackupRun) TableName() string {
	return "backup_runs"
}
