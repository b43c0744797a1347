package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OpenRouter API默认地址
const defaultBaseURL = "https://openrouter.ai"

// =============================================================================
// Client — OpenAI兼容的chat completions客户端
// 政策助手、审批助手两个AI代理端点共用
// =============================================================================

// Client OpenRouter客户端
type Client struct {
	baseURL    string
	apiKey     string
	referer    string // HTTP-Referer头，OpenRouter用于来源统计
	title      string // X-Title头
	httpClient *http.Client
}

// NewClient 创建OpenRouter客户端实例
func NewClient(apiKey, referer, title string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		referer:    referer,
		title:      title,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SetBaseURL 覆盖API地址（测试用）
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// Message 对话消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// completionRequest chat completions请求体
type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// completionResponse chat completions响应体
type completionResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			Reasoning string `json:"reasoning"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete 发起一次对话补全，返回首个choice的文本内容
func (c *Client) Complete(ctx context.Context, model string, messages []Message, temperature *float64) (string, error) {
	reqBody := completionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
	}
	bodyBytes, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/api/v1/chat/completions",
		bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("openrouter: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openrouter: request: %w", err)
	}
	defer resp.Body.Close()

	var result completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("openrouter: decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := "upstream error"
		if result.Error != nil {
			msg = result.Error.Message
		}
		return "", fmt.Errorf("openrouter: [%d] %s", resp.StatusCode, msg)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openrouter: empty choices")
	}

	// 部分模型把正文放在reasoning字段
	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		content = strings.TrimSpace(result.Choices[0].Message.Reasoning)
	}
	if content == "" {
		return "", fmt.Errorf("openrouter: no valid content from model")
	}
	return content, nil
}
