package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mahmoudshee/Niru-DRS/internal/entity"
	"github.com/Mahmoudshee/Niru-DRS/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRefresh     = errors.New("invalid or expired refresh token")
)

// AuthService 用户注册、登录与令牌管理
// 刷新令牌以jti存入Redis，登出或轮换后立即失效
type AuthService struct {
	userRepo   *repository.UserRepository
	rdb        *redis.Client
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, jwtSecret string, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		rdb:        rdb,
		jwtSecret:  jwtSecret,
		accessTTL:  2 * time.Hour,
		refreshTTL: 7 * 24 * time.Hour,
		logger:     logger,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Roles    []string `json:"roles"`
}

// TokenPair 访问令牌+刷新令牌
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register 创建用户，密码bcrypt加盐存储
// 未指定角色时默认staff；非法角色名直接拒绝
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{entity.RoleStaff}
	}
	for _, role := range roles {
		if !entity.ValidRole(role) {
			return nil, fmt.Errorf("invalid role: %s", role)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New().String()[:32],
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Roles:        roles,
		Status:       "active",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login 校验凭证并签发令牌对
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, *TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if user.Status != "active" {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		s.logger.Warn("Failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	}
	return user, pair, nil
}

// Refresh 用刷新令牌换新令牌对，旧刷新令牌立即作废
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*entity.User, *TokenPair, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, nil, ErrInvalidRefresh
	}
	jti, _ := claims["jti"].(string)
	userID, _ := claims["uid"].(string)
	if jti == "" || userID == "" {
		return nil, nil, ErrInvalidRefresh
	}

	if s.rdb != nil {
		key := "auth:refresh:" + jti
		stored, err := s.rdb.Get(ctx, key).Result()
		if err != nil || stored != userID {
			return nil, nil, ErrInvalidRefresh
		}
		s.rdb.Del(ctx, key)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, ErrInvalidRefresh
	}
	pair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout 作废指定刷新令牌
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if s.rdb == nil {
		return
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return
	}
	if jti, _ := claims["jti"].(string); jti != "" {
		s.rdb.Del(ctx, "auth:refresh:"+jti)
	}
}

// GetUser 获取当前用户
func (s *AuthService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *entity.User) (*TokenPair, error) {
	now := time.Now()

	accessClaims := jwt.MapClaims{
		"uid":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"roles": []string(user.Roles),
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	jti := uuid.New().String()
	refreshClaims := jwt.MapClaims{
		"uid": user.ID,
		"jti": jti,
		"iat": now.Unix(),
		"exp": now.Add(s.refreshTTL).Unix(),
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, "auth:refresh:"+jti, user.ID, s.refreshTTL).Err(); err != nil {
			s.logger.Warn("Failed to store refresh token", zap.Error(err))
		}
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}
