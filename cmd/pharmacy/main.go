package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zenhealth/pharmacy/internal/config"
	"github.com/zenhealth/pharmacy/internal/middleware"
	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"github.com/zenhealth/pharmacy/internal/pharmacy/handler"
	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
	"github.com/zenhealth/pharmacy/internal/pharmacy/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting pharmacy service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	seed(db, zapLogger)

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, rdb, cfg, zapLogger)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func migrate(db *gorm.DB, zapLogger *zap.Logger) error {
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},
		&entity.UserRole{},
		&entity.RolePermission{},
		&entity.Generic{},
		&entity.Ward{},
		&entity.Medicine{},
		&entity.StockMovement{},
		&entity.Expense{},
		&entity.ExpenseRecord{},
		&entity.Setting{},
		&entity.BackupRun{},
	); err != nil {
		return err
	}

	// Counter sanity constraints, kept outside the AutoMigrate tags
	migrationSQL := []string{
		`ALTER TABLE medicines ADD CONSTRAINT chk_medicines_on_hand CHECK (on_hand_qty >= 0)`,
		`ALTER TABLE medicines ADD CONSTRAINT chk_medicines_total CHECK (total_received_qty >= 0)`,
		`ALTER TABLE stock_movements ADD CONSTRAINT chk_movements_quantity CHECK (quantity > 0)`,
		`ALTER TABLE expense_records ADD CONSTRAINT chk_expense_records_quantity CHECK (quantity > 0)`,
	}
	for _, sql := range migrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			zapLogger.Warn("Migration SQL warning (may already exist)", zap.String("sql", sql), zap.Error(err))
		}
	}

	zapLogger.Info("Database migration completed")
	return nil
}

func seed(db *gorm.DB, zapLogger *zap.Logger) {
	permissionSeeds := []struct{ Code, Name, Module string }{
		{"medicine.create", "Create medicines", "medicine"},
		{"medicine.update", "Update medicines", "medicine"},
		{"medicine.delete", "Delete medicines", "medicine"},
		{"medicine.stock", "Record stock movements", "medicine"},
		{"generic.manage", "Manage generics", "generic"},
		{"ward.manage", "Manage wards", "ward"},
		{"expense.create", "Create expenses", "expense"},
		{"expense.update", "Update expenses", "expense"},
		{"expense.delete", "Delete expenses", "expense"},
		{"setting.update", "Update settings", "setting"},
		{"report.export", "Export reports", "report"},
		{"backup.run", "Run backups", "backup"},
	}
	for _, ps := range permissionSeeds {
		db.Exec(`INSERT INTO permissions (id, code, name, module, created_at)
			VALUES (gen_random_uuid(), ?, ?, ?, NOW())
			ON CONFLICT (code) DO NOTHING`, ps.Code, ps.Name, ps.Module)
	}

	roleSeeds := []struct{ Code, Name string }{
		{"pharmacy_admin", "Pharmacy Administrator"},
		{"pharmacist", "Pharmacist"},
		{"ward_clerk", "Ward Clerk"},
	}
	for _, rs := range roleSeeds {
		db.Exec(`INSERT INTO roles (id, code, name, status, is_system, created_at, updated_at)
			VALUES (gen_random_uuid(), ?, ?, 'active', true, NOW(), NOW())
			ON CONFLICT (code) DO NOTHING`, rs.Code, rs.Name)
	}

	rolePermSeeds := map[string][]string{
		"pharmacist": {
			"medicine.create", "medicine.update", "medicine.stock",
			"generic.manage", "expense.create", "expense.update", "report.export",
		},
		"ward_clerk": {
			"expense.create", "expense.update",
		},
	}
	for roleCode, permCodes := range rolePermSeeds {
		for _, permCode := range permCodes {
			db.Exec(`INSERT INTO role_permissions (role_id, permission_id, created_at)
				SELECT r.id, p.id, NOW() FROM roles r, permissions p
				WHERE r.code = ? AND p.code = ?
				ON CONFLICT DO NOTHING`, roleCode, permCode)
		}
	}

	// Bootstrap admin account from environment, first run only
	adminEmail := config.GetEnvOrDefault("ADMIN_EMAIL", "")
	adminPassword := config.GetEnvOrDefault("ADMIN_PASSWORD", "")
	if adminEmail != "" && adminPassword != "" {
		hash, err := service.HashPassword(adminPassword)
		if err != nil {
			zapLogger.Warn("Failed to hash admin password", zap.Error(err))
			return
		}
		db.Exec(`INSERT INTO users (id, username, name, email, password_hash, status, created_at, updated_at)
			VALUES (gen_random_uuid(), 'admin', 'Administrator', ?, ?, 'active', NOW(), NOW())
			ON CONFLICT (email) DO NOTHING`, adminEmail, hash)
		db.Exec(`INSERT INTO user_roles (user_id, role_id, created_at)
			SELECT u.id, r.id, NOW() FROM users u, roles r
			WHERE u.email = ? AND r.code = 'pharmacy_admin'
			ON CONFLICT DO NOTHING`, adminEmail)
	}
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config, rdb *redis.Client) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
		}

		authorized := v1.Group("",
			middleware.JWTAuth(cfg.JWT.Secret),
			middleware.TokenBlacklist(rdb),
		)
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			medicines := authorized.Group("/medicines")
			{
				medicines.GET("", h.Medicine.List)
				medicines.GET("/:id", h.Medicine.Get)
				medicines.POST("", middleware.RequirePermission("medicine.create"), h.Medicine.Create)
				medicines.PUT("/:id", middleware.RequirePermission("medicine.update"), h.Medicine.Update)
				medicines.DELETE("/:id", middleware.RequirePermission("medicine.delete"), h.Medicine.Delete)
				medicines.POST("/:id/movements", middleware.RequirePermission("medicine.stock"), h.Medicine.RecordMovement)
				medicines.GET("/:id/movements", h.Medicine.ListMovements)
			}

			generics := authorized.Group("/generics")
			{
				generics.GET("", h.Generic.List)
				generics.GET("/:id", h.Generic.Get)
				generics.POST("", middleware.RequirePermission("generic.manage"), h.Generic.Create)
				generics.PUT("/:id", middleware.RequirePermission("generic.manage"), h.Generic.Update)
				generics.DELETE("/:id", middleware.RequirePermission("generic.manage"), h.Generic.Delete)
			}

			wards := authorized.Group("/wards")
			{
				wards.GET("", h.Ward.List)
				wards.GET("/:id", h.Ward.Get)
				wards.POST("", middleware.RequirePermission("ward.manage"), h.Ward.Create)
				wards.PUT("/:id", middleware.RequirePermission("ward.manage"), h.Ward.Update)
				wards.DELETE("/:id", middleware.RequirePermission("ward.manage"), h.Ward.Delete)
			}

			expenses := authorized.Group("/expenses")
			{
				expenses.GET("", h.Expense.List)
				expenses.GET("/:id", h.Expense.Get)
				expenses.POST("", middleware.RequirePermission("expense.create"), h.Expense.Open)
				expenses.POST("/:id/records", middleware.RequirePermission("expense.create"), h.Expense.AppendRecords)
				expenses.PUT("/:id", middleware.RequirePermission("expense.update"), h.Expense.Update)
				expenses.DELETE("/:id", middleware.RequirePermission("expense.delete"), h.Expense.Delete)
			}

			settings := authorized.Group("/settings")
			{
				settings.GET("", h.Setting.List)
				settings.PUT("", middleware.RequirePermission("setting.update"), h.Setting.Update)
			}

			reports := authorized.Group("/reports", middleware.RequirePermission("report.export"))
			{
				reports.GET("/medicines/export", h.Report.ExportMedicines)
				reports.GET("/expenses/:id/export", h.Report.ExportExpense)
			}

			backups := authorized.Group("/backups", middleware.RequirePermission("backup.run"))
			{
				backups.POST("", h.Backup.Start)
				backups.GET("", h.Backup.List)
				backups.GET("/:id", h.Backup.Get)
			}
		}
	}
}
