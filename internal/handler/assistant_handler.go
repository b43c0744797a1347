package handler

import (
	"github.com/Mahmoudshee/Niru-DRS/internal/service"
	"github.com/gin-gonic/gin"
)

// AssistantHandler AI助手处理器
type AssistantHandler struct {
	svc       *service.AssistantService
	lifecycle *service.LifecycleService
}

func NewAssistantHandler(svc *service.AssistantService, lifecycle *service.LifecycleService) *AssistantHandler {
	return &AssistantHandler{svc: svc, lifecycle: lifecycle}
}

type policyQuestionRequest struct {
	Question string `json:"question" binding:"required"`
}

// AskPolicy 政策问答
func (h *AssistantHandler) AskPolicy(c *gin.Context) {
	var req policyQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	reply, err := h.svc.AskPolicy(c.Request.Context(), req.Question)
	if err != nil {
		InternalError(c, "assistant unavailable: "+err.Error())
		return
	}
	Success(c, gin.H{"reply": reply})
}

type reviewRequest struct {
	Question string `json:"question"`
}

// ReviewRequisition 审批辅助
func (h *AssistantHandler) ReviewRequisition(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	requisition, err := h.lifecycle.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	reply, err := h.svc.ReviewRequisition(c.Request.Context(), requisition, req.Question)
	if err != nil {
		InternalError(c, "assistant unavailable: "+err.Error())
		return
	}
	Success(c, gin.H{"reply": reply})
}
