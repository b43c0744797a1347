package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Mahmoudshee/Niru-DRS/internal/entity"
	"github.com/Mahmoudshee/Niru-DRS/internal/repository"
	"github.com/Mahmoudshee/Niru-DRS/internal/sse"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 生命周期守卫错误，handler按errors.Is映射HTTP状态码
var (
	ErrDuplicateRequisition = errors.New("a similar requisition already exists")
	ErrBlockedByUnliquidated = errors.New("you have unliquidated approved requisitions, please contact admin")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrSelfActionForbidden  = errors.New("you cannot authorize or approve your own requisition")
	ErrLiquidationLocked    = errors.New("requisition is locked until liquidation is completed")
	ErrNotOwner             = errors.New("only the owner or an admin can archive this requisition")
	ErrAdminOnly            = errors.New("admin role required")
	ErrSubmitCooldown       = errors.New("please wait a moment before submitting again")
	ErrPermanentDeleteFailed = errors.New("permanent delete failed")
)

// 提交冷却时间，防止双击重复提交
const submitCooldown = 2 * time.Second

// LifecycleService 请购单生命周期服务
// 唯一的状态图：pending → authorized → approved，rejected可从前两态到达且为终态
type LifecycleService struct {
	reqRepo   *repository.RequisitionRepository
	auditRepo *repository.AuditLogRepository
	userRepo  *repository.UserRepository
	db        *gorm.DB
	rdb       *redis.Client
	docs      *DocumentService
	notifier  *NotificationService
	logger    *zap.Logger
}

func NewLifecycleService(repos *repository.Repositories, db *gorm.DB, logger *zap.Logger) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{
		reqRepo:   repos.Requisition,
		auditRepo: repos.AuditLog,
		userRepo:  repos.User,
		db:        db,
		logger:    logger,
	}
}

// SetRedis 注入Redis客户端（提交冷却锁）
func (s *LifecycleService) SetRedis(rdb *redis.Client) {
	s.rdb = rdb
}

// SetDocumentService 注入附件存储服务
func (s *LifecycleService) SetDocumentService(docs *DocumentService) {
	s.docs = docs
}

// SetNotifier 注入通知服务
func (s *LifecycleService) SetNotifier(n *NotificationService) {
	s.notifier = n
}

// === 提交 ===

// SubmitItem 提交的行项
type SubmitItem struct {
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required"`
	UnitPrice   float64 `json:"unit_price" binding:"required"`
}

// SubmitRequest 提交请购单请求
type SubmitRequest struct {
	Date                  string               `json:"date" binding:"required"`
	Activity              string               `json:"activity" binding:"required"`
	Items                 []SubmitItem         `json:"items" binding:"required"`
	Documents             []entity.DocumentRef `json:"documents"`
	OriginalRequisitionID *string              `json:"original_requisition_id"`
}

// Submit 创建请购单，初始状态pending
// 守卫：核销锁（有未核销的已批准请购单则拒绝）、查重（同人同日同活动同金额且行项集合相等）
// 总金额由服务端按行项重算，不信任客户端
func (s *LifecycleService) Submit(ctx context.Context, staffID string, req *SubmitRequest) (*entity.Requisition, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("requisition must have at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 || item.UnitPrice < 0 {
			return nil, fmt.Errorf("invalid quantity or unit price for item %q", item.Description)
		}
	}

	if err := s.acquireSubmitLock(ctx, staffID); err != nil {
		return nil, err
	}

	staff, err := s.userRepo.FindByID(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("load submitting user: %w", err)
	}

	// 核销锁
	blocked, err := s.reqRepo.HasUnliquidatedApproved(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("check unliquidated requisitions: %w", err)
	}
	if blocked {
		return nil, ErrBlockedByUnliquidated
	}

	// 服务端重算行项金额与总额
	items := make(entity.RequisitionItems, 0, len(req.Items))
	for i, item := range req.Items {
		items = append(items, entity.RequisitionItem{
			ID:          fmt.Sprintf("%d", i+1),
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.Quantity * item.UnitPrice,
		})
	}
	totalAmount := items.Total()

	// 查重：编辑重提时排除原单
	excludeID := ""
	if req.OriginalRequisitionID != nil {
		excludeID = *req.OriginalRequisitionID
	}
	candidates, err := s.reqRepo.FindDuplicates(ctx, staffID, req.Date, req.Activity, totalAmount, excludeID)
	if err != nil {
		return nil, fmt.Errorf("check duplicates: %w", err)
	}
	for _, existing := range candidates {
		if itemSetsEqual(items, existing.Items) {
			return nil, ErrDuplicateRequisition
		}
	}

	code, err := s.reqRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate requisition code: %w", err)
	}

	requisition := &entity.Requisition{
		ID:                    uuid.New().String()[:32],
		Code:                  code,
		Status:                entity.StatusPending,
		StaffID:               staff.ID,
		StaffName:             staff.Name,
		StaffEmail:            staff.Email,
		Date:                  req.Date,
		Activity:              req.Activity,
		Items:                 items,
		TotalAmount:           totalAmount,
		Documents:             req.Documents,
		OriginalRequisitionID: req.OriginalRequisitionID,
	}

	// 创建与created审计在同一事务内落库
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(requisition).Error; err != nil {
			return err
		}
		return s.auditRepo.CreateTx(ctx, tx, &entity.AuditLog{
			RequisitionID:   requisition.ID,
			Action:          entity.ActionCreated,
			PerformedBy:     staff.ID,
			PerformedByRole: entity.RoleStaff,
			NewValue:        entity.StatusPending,
			Notes:           fmt.Sprintf("Requisition created for %s", requisition.Activity),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create requisition: %w", err)
	}

	sse.PublishRequisitionUpdate(requisition.ID, entity.ActionCreated, requisition.Status)
	s.notifyAsync(entity.ActionCreated, requisition, "")

	return requisition, nil
}

// acquireSubmitLock 提交冷却锁，Redis不可用时直接放行
func (s *LifecycleService) acquireSubmitLock(ctx context.Context, staffID string) error {
	if s.rdb == nil {
		return nil
	}
	ok, err := s.rdb.SetNX(ctx, "requisition:submit:"+staffID, 1, submitCooldown).Result()
	if err != nil {
		s.logger.Warn("Submit cooldown check failed, allowing submit", zap.Error(err))
		return nil
	}
	if !ok {
		return ErrSubmitCooldown
	}
	return nil
}

// itemSetsEqual 行项集合无序比较，描述忽略大小写与首尾空白
func itemSetsEqual(a, b entity.RequisitionItems) bool {
	if len(a) != len(b) {
		return false
	}
	normalize := func(items entity.RequisitionItems) []string {
		keys := make([]string, 0, len(items))
		for _, item := range items {
			keys = append(keys, fmt.Sprintf("%s|%g|%g",
				strings.ToLower(strings.TrimSpace(item.Description)),
				item.Quantity, item.UnitPrice))
		}
		sort.Strings(keys)
		return keys
	}
	ka, kb := normalize(a), normalize(b)
	for i := range ka {
		if ka[i] != kb[i] {
			return false
		}
	}
	return true
}

// === 状态流转 ===

// transitionEdge 一条合法的状态边
type transitionEdge struct {
	from string
	role string
}

// 状态图：目标状态 → 允许的(前驱状态, 操作角色)组合
var legalTransitions = map[string][]transitionEdge{
	entity.StatusAuthorized: {
		{from: entity.StatusPending, role: entity.RoleAuthoriser},
	},
	entity.StatusApproved: {
		{from: entity.StatusAuthorized, role: entity.RoleApprover},
	},
	entity.StatusRejected: {
		{from: entity.StatusPending, role: entity.RoleAuthoriser},
		{from: entity.StatusAuthorized, role: entity.RoleApprover},
	},
}

// Transition 应用一条状态边
// 并发保护：按期望前驱状态条件更新，两个并发审批只有一个生效
// 驳回的阶段落点：pending被驳回记authoriser阶段字段，authorized被驳回记approver阶段字段
func (s *LifecycleService) Transition(ctx context.Context, id, targetStatus, actorID, actingRole, notes string) (*entity.Requisition, error) {
	req, err := s.reqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.IsTerminalStatus(req.Status) {
		return nil, ErrInvalidTransition
	}

	edges, ok := legalTransitions[targetStatus]
	if !ok {
		return nil, ErrInvalidTransition
	}
	var edge *transitionEdge
	for i := range edges {
		if edges[i].from == req.Status && edges[i].role == actingRole {
			edge = &edges[i]
			break
		}
	}
	if edge == nil {
		return nil, ErrInvalidTransition
	}

	if req.StaffID == actorID {
		return nil, ErrSelfActionForbidden
	}

	// 声明的操作角色必须真实持有，admin可代行任一角色
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("load acting user: %w", err)
	}
	if !actor.Roles.Contains(actingRole) && !actor.Roles.Contains(entity.RoleAdmin) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":     targetStatus,
		"updated_at": now,
	}
	switch {
	case targetStatus == entity.StatusAuthorized,
		targetStatus == entity.StatusRejected && req.Status == entity.StatusPending:
		fields["authorized_at"] = now
		fields["authoriser_notes"] = notes
	case targetStatus == entity.StatusApproved,
		targetStatus == entity.StatusRejected && req.Status == entity.StatusAuthorized:
		fields["approved_at"] = now
		fields["approver_notes"] = notes
	}
	if targetStatus == entity.StatusApproved && req.LiquidationStatus == "" {
		fields["liquidation_status"] = entity.LiquidationNotLiquidated
	}

	auditNotes := notes
	if auditNotes == "" {
		auditNotes = fmt.Sprintf("Status changed from %s to %s", req.Status, targetStatus)
	}

	previous := req.Status
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updated, err := s.reqRepo.TransitionStatus(ctx, tx, id, previous, fields)
		if err != nil {
			return err
		}
		if !updated {
			// 状态已被并发修改
			return ErrInvalidTransition
		}
		return s.auditRepo.CreateTx(ctx, tx, &entity.AuditLog{
			RequisitionID:   id,
			Action:          targetStatus,
			PerformedBy:     actorID,
			PerformedByRole: actingRole,
			PreviousValue:   previous,
			NewValue:        targetStatus,
			Notes:           auditNotes,
		})
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("apply transition: %w", err)
	}

	updated, err := s.reqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sse.PublishRequisitionUpdate(id, targetStatus, updated.Status)
	sse.PublishAuditAppended(id, targetStatus)
	s.notifyAsync(targetStatus, updated, actingRole)

	return updated, nil
}

// === 核销 ===

// ToggleLiquidation 翻转核销状态，仅限admin、仅对approved请购单
// 进入liquidated时盖章liquidated_by/at，退出时清除——连续调用两次恢复原状
func (s *LifecycleService) ToggleLiquidation(ctx context.Context, id, actorID, actingRole string) (*entity.Requisition, error) {
	if actingRole != entity.RoleAdmin {
		return nil, ErrAdminOnly
	}

	req, err := s.reqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != entity.StatusApproved {
		return nil, ErrInvalidTransition
	}

	previous := req.LiquidationStatus
	var fields map[string]interface{}
	var target string
	if req.LiquidationStatus == entity.LiquidationLiquidated {
		target = entity.LiquidationNotLiquidated
		fields = map[string]interface{}{
			"liquidation_status": target,
			"liquidated_by":      "",
			"liquidated_at":      nil,
			"updated_at":         time.Now(),
		}
	} else {
		target = entity.LiquidationLiquidated
		now := time.Now()
		fields = map[string]interface{}{
			"liquidation_status": target,
			"liquidated_by":      actorID,
			"liquidated_at":      now,
			"updated_at":         now,
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Requisition{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return s.auditRepo.CreateTx(ctx, tx, &entity.AuditLog{
			RequisitionID:   id,
			Action:          entity.ActionStatusChanged,
			PerformedBy:     actorID,
			PerformedByRole: entity.RoleAdmin,
			PreviousValue:   previous,
			NewValue:        target,
			Notes:           fmt.Sprintf("Liquidation status changed to %s", target),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("toggle liquidation: %w", err)
	}

	updated, err := s.reqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sse.PublishRequisitionUpdate(id, "liquidation_"+target, updated.Status)
	return updated, nil
}

// === 归档（软删除） ===

// Archive 归档请购单
// 仅所有者或admin可归档
// 核销锁：所有者不能归档自己未核销的已批准请购单，admin不受此限制
func (s *LifecycleService) Archive(ctx context.Context, id, actorID, actingRole, reason string) error {
	req, err := s.reqRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if req.Archived {
		return nil
	}
	if req.StaffID != actorID && actingRole != entity.RoleAdmin {
		return ErrNotOwner
	}
	if s.liquidationLocked(req, actorID, actingRole) {
		return ErrLiquidationLocked
	}
	if reason == "" {
		reason = "Deleted by user"
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]interface{}{
			"archived":       true,
			"archived_by":    actorID,
			"archived_at":    now,
			"archive_reason": reason,
			"updated_at":     now,
		}
		if err := tx.Model(&entity.Requisition{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return s.auditRepo.CreateTx(ctx, tx, &entity.AuditLog{
			RequisitionID:   id,
			Action:          entity.ActionArchived,
			PerformedBy:     actorID,
			PerformedByRole: actingRole,
			Notes:           reason,
		})
	})
	if err != nil {
		return fmt.Errorf("archive requisition: %w", err)
	}

	sse.PublishRequisitionUpdate(id, entity.ActionArchived, req.Status)
	return nil
}

// liquidationLocked 核销锁判定：所有者+approved+未核销
func (s *LifecycleService) liquidationLocked(req *entity.Requisition, actorID, actingRole string) bool {
	if actingRole == entity.RoleAdmin {
		return false
	}
	return req.StaffID == actorID &&
		req.Status == entity.StatusApproved &&
		req.LiquidationStatus != entity.LiquidationLiquidated &&
		req.LiquidationStatus != entity.LiquidationNotApplicable
}

// ClearHistory 批量归档某提交人的全部未归档请购单
// 先整体做核销锁检查：任何一单被锁则整个操作失败，不做部分归档
func (s *LifecycleService) ClearHistory(ctx context.Context, staffUserID, actorID, actingRole string) (int, error) {
	requisitions, err := s.reqRepo.FindActiveByOwner(ctx, staffUserID)
	if err != nil {
		return 0, fmt.Errorf("list requisitions: %w", err)
	}
	for i := range requisitions {
		if s.liquidationLocked(&requisitions[i], actorID, actingRole) {
			return 0, ErrLiquidationLocked
		}
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range requisitions {
			req := &requisitions[i]
			fields := map[string]interface{}{
				"archived":       true,
				"archived_by":    actorID,
				"archived_at":    now,
				"archive_reason": "History cleared by user",
				"updated_at":     now,
			}
			if err := tx.Model(&entity.Requisition{}).Where("id = ?", req.ID).Updates(fields).Error; err != nil {
				return err
			}
			if err := s.auditRepo.CreateTx(ctx, tx, &entity.AuditLog{
				RequisitionID:   req.ID,
				Action:          entity.ActionArchived,
				PerformedBy:     actorID,
				PerformedByRole: actingRole,
				Notes:           "Requisition archived during history clear",
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}

	for i := range requisitions {
		sse.PublishRequisitionUpdate(requisitions[i].ID, entity.ActionArchived, requisitions[i].Status)
	}
	return len(requisitions), nil
}

// === 永久删除 ===

// PermanentlyDelete 硬删除：先删附件对象，再删审计日志，最后删行
// 附件删除失败中止整个操作；审计删除失败只记日志，不阻塞删行
func (s *LifecycleService) PermanentlyDelete(ctx context.Context, id, actorID, actingRole string) error {
	if actingRole != entity.RoleAdmin {
		return ErrAdminOnly
	}

	req, err := s.reqRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 1) 附件对象
	if s.docs != nil {
		for _, doc := range req.Documents {
			if doc.Path == "" {
				continue
			}
			if err := s.docs.Delete(ctx, doc.Path); err != nil {
				return fmt.Errorf("%w: remove document %s: %v", ErrPermanentDeleteFailed, doc.Path, err)
			}
		}
	}

	// 2) 审计日志
	if err := s.auditRepo.DeleteByRequisition(ctx, id); err != nil {
		s.logger.Warn("Failed to delete audit logs before permanent delete",
			zap.String("requisition_id", id), zap.Error(err))
	}

	// 3) 请购单行
	if err := s.reqRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: delete requisition row: %v", ErrPermanentDeleteFailed, err)
	}

	s.logger.Info("Requisition permanently deleted",
		zap.String("requisition_id", id), zap.String("actor", actorID))
	sse.PublishRequisitionUpdate(id, entity.ActionPermanentlyDeleted, req.Status)
	return nil
}

// PermanentlyDeleteAllArchived 对所有已归档请购单逐个执行永久删除
// 中途失败不回滚已删除的部分
func (s *LifecycleService) PermanentlyDeleteAllArchived(ctx context.Context, actorID, actingRole string) (int, error) {
	if actingRole != entity.RoleAdmin {
		return 0, ErrAdminOnly
	}
	archived, err := s.reqRepo.FindArchived(ctx)
	if err != nil {
		return 0, fmt.Errorf("list archived: %w", err)
	}
	deleted := 0
	for i := range archived {
		if err := s.PermanentlyDelete(ctx, archived[i].ID, actorID, actingRole); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// === 查询 ===

// GetByID 获取请购单详情
func (s *LifecycleService) GetByID(ctx context.Context, id string) (*entity.Requisition, error) {
	return s.reqRepo.FindByID(ctx, id)
}

// ListForRole 按角色可见范围查询请购单
// staff只见自己的；authoriser见全流程；approver见authorized及之后；admin见全部
func (s *LifecycleService) ListForRole(ctx context.Context, role, userID string, includeArchived bool, page, pageSize int) ([]entity.Requisition, int64, error) {
	filters := map[string]string{}
	if includeArchived {
		filters["archived"] = "all"
	}
	switch role {
	case entity.RoleStaff:
		filters["staff_id"] = userID
	case entity.RoleAuthoriser:
		// 全部状态可见
	case entity.RoleApprover:
		filters["statuses"] = entity.StatusAuthorized + "," + entity.StatusApproved + "," + entity.StatusRejected
	case entity.RoleAdmin:
		// 全部可见
	default:
		return []entity.Requisition{}, 0, nil
	}
	return s.reqRepo.FindAll(ctx, page, pageSize, filters)
}

// ListArchived 查询已归档请购单（按角色过滤）
func (s *LifecycleService) ListArchived(ctx context.Context, role, userID string) ([]entity.Requisition, error) {
	archived, err := s.reqRepo.FindArchived(ctx)
	if err != nil {
		return nil, err
	}
	var out []entity.Requisition
	for _, req := range archived {
		switch role {
		case entity.RoleStaff:
			if req.StaffID == userID {
				out = append(out, req)
			}
		case entity.RoleApprover:
			if req.Status != entity.StatusPending {
				out = append(out, req)
			}
		case entity.RoleAuthoriser, entity.RoleAdmin:
			out = append(out, req)
		}
	}
	return out, nil
}

// AuditTrail 获取某请购单的完整操作日志
func (s *LifecycleService) AuditTrail(ctx context.Context, requisitionID string) ([]entity.AuditLog, error) {
	return s.auditRepo.FindByRequisition(ctx, requisitionID)
}

// Counts 数据库总量（管理面板）
type Counts struct {
	TotalRequisitions int64 `json:"total_requisitions"`
	TotalAuditLogs    int64 `json:"total_audit_logs"`
}

// DatabaseCounts 统计请购单与审计日志总数
func (s *LifecycleService) DatabaseCounts(ctx context.Context) (*Counts, error) {
	reqCount, err := s.reqRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	auditCount, err := s.auditRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Counts{TotalRequisitions: reqCount, TotalAuditLogs: auditCount}, nil
}

// === 导出 ===

// ExportPayload 导出渲染载荷：请购单+签批人姓名与签名图URL
// PDF渲染本身由前端完成，这里只负责解析签批人信息
type ExportPayload struct {
	Requisition         *entity.Requisition `json:"requisition"`
	AuthoriserName      string              `json:"authoriser_name,omitempty"`
	AuthoriserSignature string              `json:"authoriser_signature,omitempty"`
	ApproverName        string              `json:"approver_name,omitempty"`
	ApproverSignature   string              `json:"approver_signature,omitempty"`
}

// BuildExportPayload 从审计日志解析签批人并带出签名URL
func (s *LifecycleService) BuildExportPayload(ctx context.Context, id string) (*ExportPayload, error) {
	req, err := s.reqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payload := &ExportPayload{Requisition: req}

	logs, err := s.auditRepo.FindByRequisition(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load audit trail: %w", err)
	}
	for _, log := range logs {
		switch log.Action {
		case entity.ActionAuthorized:
			payload.AuthoriserName, payload.AuthoriserSignature = s.resolveSigner(ctx, log.PerformedBy)
		case entity.ActionApproved:
			payload.ApproverName, payload.ApproverSignature = s.resolveSigner(ctx, log.PerformedBy)
		case entity.ActionRejected:
			// 驳回人按阶段落到对应签批位
			if log.PerformedByRole == entity.RoleAuthoriser {
				payload.AuthoriserName, payload.AuthoriserSignature = s.resolveSigner(ctx, log.PerformedBy)
			} else {
				payload.ApproverName, payload.ApproverSignature = s.resolveSigner(ctx, log.PerformedBy)
			}
		}
	}
	return payload, nil
}

func (s *LifecycleService) resolveSigner(ctx context.Context, userID string) (name, signatureURL string) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", ""
	}
	return user.Name, user.SignatureURL
}

// === 通知 ===

// notifyAsync 触发出站通知，尽力而为：失败只记日志，绝不回滚业务变更
func (s *LifecycleService) notifyAsync(action string, req *entity.Requisition, actingRole string) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := s.notifier.Dispatch(ctx, action, req, actingRole); err != nil {
			s.logger.Warn("Notification dispatch failed",
				zap.String("requisition_id", req.ID),
				zap.String("action", action),
				zap.Error(err))
		}
	}()
}
