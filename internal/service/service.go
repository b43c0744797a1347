package service

import (
	"github.com/Mahmoudshee/Niru-DRS/internal/config"
	"github.com/Mahmoudshee/Niru-DRS/internal/repository"
	"github.com/Mahmoudshee/Niru-DRS/internal/shared/emailjs"
	"github.com/Mahmoudshee/Niru-DRS/internal/shared/openrouter"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services 服务聚合
type Services struct {
	Lifecycle *LifecycleService
	Auth      *AuthService
	Document  *DocumentService
	Assistant *AssistantService
}

// NewServices 创建并装配所有服务
// Redis、MinIO与外部HTTP客户端允许为空，对应能力降级
func NewServices(
	repos *repository.Repositories,
	db *gorm.DB,
	rdb *redis.Client,
	minioClient *minio.Client,
	emailClient *emailjs.Client,
	aiClient *openrouter.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *Services {
	docs := NewDocumentService(minioClient, repos.User, cfg.MinIO)
	notifier := NewNotificationService(emailClient, repos.User, cfg.Email, logger)

	lifecycle := NewLifecycleService(repos, db, logger)
	lifecycle.SetRedis(rdb)
	lifecycle.SetDocumentService(docs)
	lifecycle.SetNotifier(notifier)

	auth := NewAuthService(repos.User, rdb, cfg.JWT.Secret, logger)
	if cfg.JWT.AccessTokenExpire > 0 {
		auth.accessTTL = cfg.JWT.AccessTokenExpire
	}
	if cfg.JWT.RefreshTokenExpire > 0 {
		auth.refreshTTL = cfg.JWT.RefreshTokenExpire
	}

	return &Services{
		Lifecycle: lifecycle,
		Auth:      auth,
		Document:  docs,
		Assistant: NewAssistantService(aiClient, cfg.AI),
	}
}
