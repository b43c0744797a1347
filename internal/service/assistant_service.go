package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mahmoudshee/Niru-DRS/internal/config"
	"github.com/Mahmoudshee/Niru-DRS/internal/entity"
	"github.com/Mahmoudshee/Niru-DRS/internal/shared/openrouter"
)

// 回复长度上限，超出截断并补省略号
const assistantReplyLimit = 800

const policySystemPrompt = "You are a helpful assistant for a digital requisition system. " +
	"You answer questions about procurement policy, requisition procedures, spending limits, " +
	"and the approval workflow (staff submit, authorisers authorize, approvers approve). " +
	"Keep answers short and practical. If you are not sure, say so and suggest contacting the admin."

const approvalSystemPrompt = "You are an assistant helping authorisers and approvers review purchase requisitions. " +
	"Given a requisition summary, point out anything worth checking: unusual amounts, vague item descriptions, " +
	"duplicated items, or missing supporting documents. Be concise and factual. " +
	"Never claim to approve or reject on the reviewer's behalf."

// AssistantService AI问答代理
// 两个助手走不同模型：政策问答与审批辅助
type AssistantService struct {
	client *openrouter.Client
	cfg    config.AIConfig
}

func NewAssistantService(client *openrouter.Client, cfg config.AIConfig) *AssistantService {
	return &AssistantService{client: client, cfg: cfg}
}

// AskPolicy 政策问答
func (s *AssistantService) AskPolicy(ctx context.Context, question string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("assistant not configured")
	}
	messages := []openrouter.Message{
		{Role: "system", Content: policySystemPrompt},
		{Role: "user", Content: question},
	}
	reply, err := s.client.Complete(ctx, s.cfg.PolicyModel, messages, nil)
	if err != nil {
		return "", err
	}
	return truncateReply(reply), nil
}

// ReviewRequisition 审批辅助：把请购单摘要喂给模型做复核提示
func (s *AssistantService) ReviewRequisition(ctx context.Context, req *entity.Requisition, question string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("assistant not configured")
	}

	var summary strings.Builder
	fmt.Fprintf(&summary, "Requisition %s by %s on %s\nActivity: %s\nStatus: %s\nTotal: %.2f\nItems:\n",
		req.Code, req.StaffName, req.Date, req.Activity, req.Status, req.TotalAmount)
	for _, item := range req.Items {
		fmt.Fprintf(&summary, "- %s: %g x %.2f = %.2f\n", item.Description, item.Quantity, item.UnitPrice, item.TotalPrice)
	}
	fmt.Fprintf(&summary, "Attached documents: %d\n", len(req.Documents))
	if question != "" {
		fmt.Fprintf(&summary, "\nReviewer question: %s", question)
	}

	messages := []openrouter.Message{
		{Role: "system", Content: approvalSystemPrompt},
		{Role: "user", Content: summary.String()},
	}
	reply, err := s.client.Complete(ctx, s.cfg.ApprovalModel, messages, nil)
	if err != nil {
		return "", err
	}
	return truncateReply(reply), nil
}

func truncateReply(reply string) string {
	reply = strings.TrimSpace(reply)
	if len(reply) <= assistantReplyLimit {
		return reply
	}
	return reply[:assistantReplyLimit] + "..."
}
