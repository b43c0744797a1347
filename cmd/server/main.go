package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mahmoudshee/Niru-DRS/internal/config"
	"github.com/Mahmoudshee/Niru-DRS/internal/entity"
	"github.com/Mahmoudshee/Niru-DRS/internal/handler"
	"github.com/Mahmoudshee/Niru-DRS/internal/middleware"
	"github.com/Mahmoudshee/Niru-DRS/internal/repository"
	"github.com/Mahmoudshee/Niru-DRS/internal/service"
	"github.com/Mahmoudshee/Niru-DRS/internal/shared/emailjs"
	"github.com/Mahmoudshee/Niru-DRS/internal/shared/openrouter"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
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

	zapLogger.Info("Starting requisition service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Requisition{},
		&entity.AuditLog{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 初始化MinIO
	minioClient, err := initMinIO(cfg.MinIO)
	if err != nil {
		zapLogger.Warn("MinIO unavailable, file storage disabled", zap.Error(err))
	}

	// 外部HTTP客户端
	var emailClient *emailjs.Client
	if cfg.Email.ServiceID != "" {
		emailClient = emailjs.NewClient(cfg.Email.ServiceID, cfg.Email.TemplateID, cfg.Email.PublicKey, cfg.Email.PrivateKey)
	} else {
		zapLogger.Warn("EmailJS not configured, email notifications disabled")
	}
	var aiClient *openrouter.Client
	if cfg.AI.APIKey != "" {
		aiClient = openrouter.NewClient(cfg.AI.APIKey, cfg.AI.Referer, cfg.AI.Title)
	} else {
		zapLogger.Warn("OpenRouter not configured, AI assistants disabled")
	}

	// 装配依赖
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, rdb, minioClient, emailClient, aiClient, cfg, zapLogger)
	handlers := handler.NewHandlers(services, cfg)

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

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 0, // Disable for SSE long-lived connections
	}

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

func initMinIO(cfg config.MinIOConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint not configured")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return client, nil
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
		// 认证 (无需登录)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// SSE 实时推送（需要认证，支持 query param token）
		sseGroup := v1.Group("/sse")
		sseGroup.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			sseGroup.GET("/events", h.SSE.Stream)
		}

		// 需要认证的接口
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			// 当前用户
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 请购单
			requisitions := authorized.Group("/requisitions")
			{
				requisitions.POST("", h.Requisition.Submit)
				requisitions.GET("", h.Requisition.List)
				requisitions.GET("/archived", h.Requisition.ListArchived)
				requisitions.POST("/clear-history", h.Requisition.ClearHistory)
				requisitions.GET("/:id", h.Requisition.Get)
				requisitions.GET("/:id/audit-logs", h.Requisition.AuditLogs)
				requisitions.GET("/:id/export", h.Requisition.Export)
				requisitions.POST("/:id/archive", h.Requisition.Archive)

				// 审批动作
				requisitions.POST("/:id/authorize",
					middleware.RequireRole(entity.RoleAuthoriser), h.Requisition.Authorize)
				requisitions.POST("/:id/approve",
					middleware.RequireRole(entity.RoleApprover), h.Requisition.Approve)
				requisitions.POST("/:id/reject", h.Requisition.Reject)

				// 管理动作
				requisitions.POST("/:id/liquidation",
					middleware.RequireRole(entity.RoleAdmin), h.Requisition.ToggleLiquidation)
				requisitions.DELETE("/:id",
					middleware.RequireRole(entity.RoleAdmin), h.Requisition.PermanentlyDelete)
				requisitions.DELETE("",
					middleware.RequireRole(entity.RoleAdmin), h.Requisition.PermanentlyDeleteAllArchived)
			}

			// 管理面板
			admin := authorized.Group("/admin")
			admin.Use(middleware.RequireRole(entity.RoleAdmin))
			{
				admin.GET("/counts", h.Requisition.Counts)
			}

			// 附件与签名
			documents := authorized.Group("/documents")
			{
				documents.POST("/attachments", h.Document.UploadAttachment)
				documents.GET("/download", h.Document.Download)
				documents.POST("/signature", h.Document.UploadSignature)
				documents.DELETE("/signature", h.Document.DeleteSignature)
			}

			// AI助手
			assistant := authorized.Group("/assistant")
			{
				assistant.POST("/policy", h.Assistant.AskPolicy)
				assistant.POST("/review/:id", h.Assistant.ReviewRequisition)
			}
		}
	}
}
