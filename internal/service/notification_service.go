package service

import (
	"context"
	"fmt"

	"github.com/Mahmoudshee/Niru-DRS/internal/config"
	"github.com/Mahmoudshee/Niru-DRS/internal/entity"
	"github.com/Mahmoudshee/Niru-DRS/internal/repository"
	"github.com/Mahmoudshee/Niru-DRS/internal/shared/emailjs"
	"go.uber.org/zap"
)

// NotificationService 邮件通知路由
// 路由规则：提交→通知authoriser，授权→通知approver，批准/驳回→通知提交人
type NotificationService struct {
	client   *emailjs.Client
	userRepo *repository.UserRepository
	cfg      config.EmailConfig
	logger   *zap.Logger
}

func NewNotificationService(client *emailjs.Client, userRepo *repository.UserRepository, cfg config.EmailConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{client: client, userRepo: userRepo, cfg: cfg, logger: logger}
}

// Dispatch 按动作路由通知
func (n *NotificationService) Dispatch(ctx context.Context, action string, req *entity.Requisition, actingRole string) error {
	switch action {
	case entity.ActionCreated:
		return n.requisitionSubmitted(ctx, req)
	case entity.StatusAuthorized:
		return n.requisitionAuthorized(ctx, req)
	case entity.StatusApproved:
		return n.requisitionApproved(ctx, req)
	case entity.StatusRejected:
		return n.requisitionRejected(ctx, req, actingRole)
	default:
		return nil
	}
}

func (n *NotificationService) requisitionSubmitted(ctx context.Context, req *entity.Requisition) error {
	recipients := n.recipientsForRole(ctx, entity.RoleAuthoriser, n.cfg.FallbackAuthoriser)
	subject := fmt.Sprintf("New Requisition Pending Authorization - %s", req.Code)
	message := fmt.Sprintf(
		"A new requisition has been submitted and requires your authorization.\n\n"+
			"Requisition: %s\nSubmitted by: %s\nActivity: %s\nTotal Amount: %.2f\n\n"+
			"Please review it here: %s",
		req.Code, req.StaffName, req.Activity, req.TotalAmount, n.cfg.ActionURL)
	return n.send(ctx, recipients, subject, message)
}

func (n *NotificationService) requisitionAuthorized(ctx context.Context, req *entity.Requisition) error {
	recipients := n.recipientsForRole(ctx, entity.RoleApprover, n.cfg.FallbackApprover)
	subject := fmt.Sprintf("Requisition Awaiting Approval - %s", req.Code)
	message := fmt.Sprintf(
		"A requisition has been authorized and now requires your approval.\n\n"+
			"Requisition: %s\nSubmitted by: %s\nActivity: %s\nTotal Amount: %.2f\n\n"+
			"Please review it here: %s",
		req.Code, req.StaffName, req.Activity, req.TotalAmount, n.cfg.ActionURL)
	return n.send(ctx, recipients, subject, message)
}

func (n *NotificationService) requisitionApproved(ctx context.Context, req *entity.Requisition) error {
	subject := fmt.Sprintf("Requisition Approved - %s", req.Code)
	message := fmt.Sprintf(
		"Good news! Your requisition has been approved.\n\n"+
			"Requisition: %s\nActivity: %s\nTotal Amount: %.2f\n\n"+
			"View it here: %s",
		req.Code, req.Activity, req.TotalAmount, n.cfg.ActionURL)
	return n.send(ctx, []string{req.StaffEmail}, subject, message)
}

func (n *NotificationService) requisitionRejected(ctx context.Context, req *entity.Requisition, actingRole string) error {
	stage := "authorization"
	notes := req.AuthoriserNotes
	if actingRole == entity.RoleApprover {
		stage = "approval"
		notes = req.ApproverNotes
	}
	subject := fmt.Sprintf("Requisition Rejected - %s", req.Code)
	message := fmt.Sprintf(
		"Your requisition was rejected at the %s stage.\n\n"+
			"Requisition: %s\nActivity: %s\nReason: %s\n\n"+
			"View it here: %s",
		stage, req.Code, req.Activity, notes, n.cfg.ActionURL)
	return n.send(ctx, []string{req.StaffEmail}, subject, message)
}

// recipientsForRole 按角色查活跃用户邮箱，查不到时回退到配置的兜底邮箱
func (n *NotificationService) recipientsForRole(ctx context.Context, role, fallback string) []string {
	users, err := n.userRepo.FindByRole(ctx, role)
	if err != nil {
		n.logger.Warn("Failed to resolve notification recipients", zap.String("role", role), zap.Error(err))
	}
	var emails []string
	for _, u := range users {
		if u.Email != "" {
			emails = append(emails, u.Email)
		}
	}
	if len(emails) == 0 && fallback != "" {
		emails = []string{fallback}
	}
	return emails
}

func (n *NotificationService) send(ctx context.Context, to []string, subject, message string) error {
	if n.client == nil || len(to) == 0 {
		return nil
	}
	return n.client.Send(ctx, to, subject, message)
}
