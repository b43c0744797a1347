package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// EmailJS REST API默认地址
const defaultBaseURL = "https://api.emailjs.com"

// =============================================================================
// Client — EmailJS邮件发送客户端
// 通知分发器的唯一实现：投递失败由调用方记录日志，不回滚业务变更
// =============================================================================

// Client EmailJS客户端
type Client struct {
	baseURL    string
	serviceID  string       // EmailJS服务ID
	templateID string       // 邮件模板ID
	publicKey  string       // 公钥（user_id）
	privateKey string       // 私钥（accessToken，可选）
	httpClient *http.Client // HTTP客户端
}

// NewClient 创建EmailJS客户端实例
func NewClient(serviceID, templateID, publicKey, privateKey string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
		privateKey: privateKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetBaseURL 覆盖API地址（测试用）
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// sendRequest EmailJS发送请求体
type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send 发送一封通知邮件
// 模板字段To/Subject/Message与EmailJS模板约定一致
func (c *Client) Send(ctx context.Context, to []string, subject, message string) error {
	if len(to) == 0 {
		return fmt.Errorf("emailjs: no recipients")
	}

	reqBody := sendRequest{
		ServiceID:   c.serviceID,
		TemplateID:  c.templateID,
		UserID:      c.publicKey,
		AccessToken: c.privateKey,
		TemplateParams: map[string]string{
			"To":      strings.Join(to, ","),
			"Subject": subject,
			"Message": message,
		},
	}
	bodyBytes, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/api/v1.0/email/send",
		bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("emailjs: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("emailjs: send failed [%d]: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
