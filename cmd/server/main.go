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
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/velocityfibre/fibreflow/internal/config"
	"github.com/velocityfibre/fibreflow/internal/middleware"
	"github.com/velocityfibre/fibreflow/internal/srm/entity"
	"github.com/velocityfibre/fibreflow/internal/srm/handler"
	"github.com/velocityfibre/fibreflow/internal/srm/repository"
	"github.com/velocityfibre/fibreflow/internal/srm/service"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting fibreflow srm service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// AutoMigrate 供应商表
	if err := db.AutoMigrate(
		&entity.Supplier{},
		&entity.SupplierContact{},
	); err != nil {
		zapLogger.Warn("AutoMigrate supplier tables warning", zap.Error(err))
	}

	// 索引兜底（AutoMigrate因历史数据可能跳过）
	migrationSQL := []string{
		"CREATE INDEX IF NOT EXISTS idx_srm_suppliers_status ON srm_suppliers(status)",
		"CREATE INDEX IF NOT EXISTS idx_srm_suppliers_business_type ON srm_suppliers(business_type)",
		"CREATE INDEX IF NOT EXISTS idx_srm_suppliers_region ON srm_suppliers(region)",
		"CREATE INDEX IF NOT EXISTS idx_srm_supplier_contacts_supplier ON srm_supplier_contacts(supplier_id)",
	}
	for _, sql := range migrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			zapLogger.Warn("Migration SQL warning (may already exist)", zap.String("sql", sql), zap.Error(err))
		}
	}
	zapLogger.Info("Database migration completed")

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 初始化MinIO
	minioClient, err := initMinIO(cfg.MinIO)
	if err != nil {
		zapLogger.Warn("Failed to init MinIO client, export disabled", zap.Error(err))
	}

	// 初始化依赖
	repos := repository.NewRepositories(db)
	cohortCache := service.NewCohortCache(rdb, cfg.Scorecard.CohortTTL, zapLogger)
	supplierSvc := service.NewSupplierService(repos.Supplier, cohortCache)
	scorecardSvc := service.NewScorecardService(repos.Supplier, cohortCache, zapLogger)
	exportSvc := service.NewExportService(minioClient, cfg.MinIO.Bucket, zapLogger)

	handlers := handler.NewHandlers(supplierSvc, scorecardSvc, exportSvc)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// 注册路由
	registerRoutes(router, handlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
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
		Logger: logger.Default.LogMode(logger.Info),
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

func initMinIO(cfg config.MinIOConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint not configured")
	}
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 需要认证的接口
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			srmGroup := authorized.Group("/srm")
			{
				// 供应商管理
				suppliers := srmGroup.Group("/suppliers")
				{
					suppliers.GET("", h.Supplier.ListSuppliers)
					suppliers.POST("", h.Supplier.CreateSupplier)
					suppliers.GET("/:id", h.Supplier.GetSupplier)
					suppliers.PUT("/:id", h.Supplier.UpdateSupplier)
					suppliers.DELETE("/:id", h.Supplier.DeleteSupplier)
					suppliers.GET("/:id/contacts", h.Supplier.ListContacts)
					suppliers.POST("/:id/contacts", h.Supplier.CreateContact)

					// 记分卡
					suppliers.GET("/:id/scorecard", h.Scorecard.GetScorecard)
					suppliers.GET("/:id/scorecard/enhanced", h.Scorecard.GetEnhancedScorecard)
					suppliers.GET("/:id/scorecard/report", h.Scorecard.GetScorecardReport)
				}

				// 批量记分卡
				scorecards := srmGroup.Group("/scorecards")
				{
					scorecards.POST("/batch", h.Scorecard.BatchScorecards)
					scorecards.POST("/compare", h.Scorecard.CompareScorecards)
					scorecards.POST("/export", h.Scorecard.ExportScorecards)
				}

				// 分析
				analytics := srmGroup.Group("/analytics")
				{
					analytics.GET("/trends", h.Analytics.GetTrends)
					analytics.GET("/benchmarks", h.Analytics.GetBenchmarks)
					analytics.GET("/dashboard", h.Analytics.GetDashboard)
				}
			}
		}
	}
}
