package handler

import (
	"github.com/Mahmoudshee/Niru-DRS/internal/entity"
	"github.com/Mahmoudshee/Niru-DRS/internal/service"
	"github.com/gin-gonic/gin"
)

// RequisitionHandler 请购单处理器
type RequisitionHandler struct {
	svc *service.LifecycleService
}

func NewRequisitionHandler(svc *service.LifecycleService) *RequisitionHandler {
	return &RequisitionHandler{svc: svc}
}

// Submit 提交请购单
func (h *RequisitionHandler) Submit(c *gin.Context) {
	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	requisition, err := h.svc.Submit(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, requisition)
}

// List 按角色可见范围分页查询
// role查询参数切换视角，必须是当前用户实际持有的角色
func (h *RequisitionHandler) List(c *gin.Context) {
	role := h.viewRole(c)
	if role == "" {
		Forbidden(c, "no valid role for this view")
		return
	}

	page, pageSize := GetPagination(c)
	includeArchived := c.Query("include_archived") == "true"

	items, total, err := h.svc.ListForRole(c.Request.Context(), role, GetUserID(c), includeArchived, page, pageSize)
	if err != nil {
		ServiceError(c, err)
		return
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// ListArchived 已归档请购单
func (h *RequisitionHandler) ListArchived(c *gin.Context) {
	role := h.viewRole(c)
	if role == "" {
		Forbidden(c, "no valid role for this view")
		return
	}
	items, err := h.svc.ListArchived(c.Request.Context(), role, GetUserID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// Get 请购单详情
func (h *RequisitionHandler) Get(c *gin.Context) {
	requisition, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, requisition)
}

type actionRequest struct {
	Notes string `json:"notes"`
}

// Authorize 授权（authoriser阶段）
func (h *RequisitionHandler) Authorize(c *gin.Context) {
	h.transition(c, entity.StatusAuthorized, entity.RoleAuthoriser)
}

// Approve 批准（approver阶段）
func (h *RequisitionHandler) Approve(c *gin.Context) {
	h.transition(c, entity.StatusApproved, entity.RoleApprover)
}

// Reject 驳回，阶段由当前状态决定
func (h *RequisitionHandler) Reject(c *gin.Context) {
	current, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	role := entity.RoleAuthoriser
	if current.Status == entity.StatusAuthorized {
		role = entity.RoleApprover
	}
	h.transition(c, entity.StatusRejected, role)
}

func (h *RequisitionHandler) transition(c *gin.Context, targetStatus, actingRole string) {
	if !HasRole(c, actingRole) && !HasRole(c, entity.RoleAdmin) {
		Forbidden(c, actingRole+" role required")
		return
	}

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	requisition, err := h.svc.Transition(c.Request.Context(), c.Param("id"), targetStatus, GetUserID(c), actingRole, req.Notes)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, requisition)
}

// ToggleLiquidation 翻转核销状态（admin）
func (h *RequisitionHandler) ToggleLiquidation(c *gin.Context) {
	role := h.actingRole(c)
	if role == "" {
		Forbidden(c, "you do not hold the requested role")
		return
	}
	requisition, err := h.svc.ToggleLiquidation(c.Request.Context(), c.Param("id"), GetUserID(c), role)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, requisition)
}

type archiveRequest struct {
	Reason string `json:"reason"`
}

// Archive 归档（软删除）
func (h *RequisitionHandler) Archive(c *gin.Context) {
	var req archiveRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	role := h.actingRole(c)
	if role == "" {
		Forbidden(c, "you do not hold the requested role")
		return
	}
	if err := h.svc.Archive(c.Request.Context(), c.Param("id"), GetUserID(c), role, req.Reason); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"archived": true})
}

// ClearHistory 批量归档当前用户的全部请购单
func (h *RequisitionHandler) ClearHistory(c *gin.Context) {
	userID := GetUserID(c)
	role := h.actingRole(c)
	if role == "" {
		Forbidden(c, "you do not hold the requested role")
		return
	}
	count, err := h.svc.ClearHistory(c.Request.Context(), userID, userID, role)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"archived_count": count})
}

// PermanentlyDelete 永久删除（admin）
func (h *RequisitionHandler) PermanentlyDelete(c *gin.Context) {
	role := h.actingRole(c)
	if role == "" {
		Forbidden(c, "you do not hold the requested role")
		return
	}
	if err := h.svc.PermanentlyDelete(c.Request.Context(), c.Param("id"), GetUserID(c), role); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}

// PermanentlyDeleteAllArchived 清空归档（admin）
func (h *RequisitionHandler) PermanentlyDeleteAllArchived(c *gin.Context) {
	role := h.actingRole(c)
	if role == "" {
		Forbidden(c, "you do not hold the requested role")
		return
	}
	count, err := h.svc.PermanentlyDeleteAllArchived(c.Request.Context(), GetUserID(c), role)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"deleted_count": count})
}

// AuditLogs 请购单操作日志
func (h *RequisitionHandler) AuditLogs(c *gin.Context) {
	logs, err := h.svc.AuditTrail(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": logs})
}

// Export 导出渲染载荷
func (h *RequisitionHandler) Export(c *gin.Context) {
	payload, err := h.svc.BuildExportPayload(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, payload)
}

// Counts 数据库计数（管理面板）
func (h *RequisitionHandler) Counts(c *gin.Context) {
	counts, err := h.svc.DatabaseCounts(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, counts)
}

// viewRole 解析查询视角：role参数优先，缺省时按admin>approver>authoriser>staff取最高持有角色
func (h *RequisitionHandler) viewRole(c *gin.Context) string {
	if requested := c.Query("role"); requested != "" {
		if HasRole(c, requested) {
			return requested
		}
		return ""
	}
	for _, role := range []string{entity.RoleAdmin, entity.RoleApprover, entity.RoleAuthoriser, entity.RoleStaff} {
		if HasRole(c, role) {
			return role
		}
	}
	return ""
}

// actingRole 操作角色：role参数优先，必须是当前用户实际持有的角色，缺省时admin优先，否则staff
func (h *RequisitionHandler) actingRole(c *gin.Context) string {
	if requested := c.Query("role"); requested != "" {
		if HasRole(c, requested) {
			return requested
		}
		return ""
	}
	if HasRole(c, entity.RoleAdmin) {
		return entity.RoleAdmin
	}
	return entity.RoleStaff
}
