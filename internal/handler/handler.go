package handler

import (
	"errors"
	"strconv"

	"github.com/Mahmoudshee/Niru-DRS/internal/config"
	"github.com/Mahmoudshee/Niru-DRS/internal/repository"
	"github.com/Mahmoudshee/Niru-DRS/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers 处理器集合
type Handlers struct {
	Requisition *RequisitionHandler
	Auth        *AuthHandler
	Document    *DocumentHandler
	Assistant   *AssistantHandler
	SSE         *SSEHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		Requisition: NewRequisitionHandler(svc.Lifecycle),
		Auth:        NewAuthHandler(svc.Auth),
		Document:    NewDocumentHandler(svc.Document),
		Assistant:   NewAssistantHandler(svc.Assistant, svc.Lifecycle),
		SSE:         NewSSEHandler(),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse 列表响应结构
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// Forbidden 禁止访问响应
func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// ServiceError 把服务层哨兵错误映射为HTTP响应
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "requisition not found")
	case errors.Is(err, service.ErrDuplicateRequisition):
		Error(c, 40901, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		Error(c, 40902, err.Error())
	case errors.Is(err, service.ErrBlockedByUnliquidated):
		Error(c, 40903, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		Error(c, 40904, err.Error())
	case errors.Is(err, service.ErrSelfActionForbidden):
		Error(c, 40301, err.Error())
	case errors.Is(err, service.ErrLiquidationLocked):
		Error(c, 40302, err.Error())
	case errors.Is(err, service.ErrAdminOnly):
		Error(c, 40303, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		Error(c, 40304, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		Error(c, 40101, err.Error())
	case errors.Is(err, service.ErrInvalidRefresh):
		Error(c, 40102, err.Error())
	case errors.Is(err, service.ErrSubmitCooldown):
		Error(c, 42900, err.Error())
	case errors.Is(err, service.ErrPermanentDeleteFailed):
		Error(c, 50001, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetUserRoles 从上下文获取用户角色列表
func GetUserRoles(c *gin.Context) []string {
	roles, _ := c.Get("roles")
	if r, ok := roles.([]string); ok {
		return r
	}
	return nil
}

// HasRole 当前用户是否持有指定角色
func HasRole(c *gin.Context, role string) bool {
	for _, r := range GetUserRoles(c) {
		if r == role {
			return true
		}
	}
	return false
}

// GetPagination 从请求获取分页参数
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
