package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zenhealth/pharmacy/internal/config"
	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
)

// Services bundles the business layer.
type Services struct {
	Auth     *AuthService
	Medicine *MedicineService
	Stock    *StockService
	Generic  *GenericService
	Ward     *WardService
	Expense  *ExpenseService
	Setting  *SettingService
	Report   *ReportService
	Backup   *BackupService
}

// NewServices creates the service bundle.
func NewServices(db *gorm.DB, repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("MinIO client init failed, backups disabled", zap.Error(err))
			minioClient = nil
		}
	}

	return &Services{
		Auth:     NewAuthService(repos.User, rdb, cfg),
		Medicine: NewMedicineService(repos.Medicine),
		Stock:    NewStockService(db, repos.Medicine, repos.Movement),
		Generic:  NewGenericService(repos.Generic, repos.Medicine),
		Ward:     NewWardService(repos.Ward),
		Expense:  NewExpenseService(repos.Expense, repos.Ward, repos.Medicine),
		Setting:  NewSettingService(repos.Setting),
		Report:   NewReportService(repos.Medicine, repos.Expense),
		Backup:   NewBackupService(repos.Backup, minioClient, cfg, logger),
	}
}
