package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/Jessi0803/kitchen-assistant/internal/infrastructure/config"
	"github.com/Jessi0803/kitchen-assistant/internal/pkg/common"
)

// Client Ollama 聊天 API 客戶端
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient 創建 Ollama 客戶端
// 超時必須有明確上限，不依賴 HTTP 客戶端的預設值
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.Ollama.Host).
		SetTimeout(cfg.Ollama.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config: cfg,
		client: client,
	}
}

// Generate 發送單輪對話請求並回傳文字內容
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := map[string]interface{}{
		"model": c.config.Ollama.Model,
		"messages": []map[string]string{
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"stream": false,
		"options": map[string]interface{}{
			"num_predict": c.config.Ollama.MaxTokens,
		},
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/chat")

	if err != nil {
		common.LogError("Ollama 請求失敗",
			zap.Error(err),
			zap.String("model", c.config.Ollama.Model),
			zap.Duration("耗時", time.Since(start)),
		)
		return "", fmt.Errorf("failed to send request to ollama: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("ollama API returned error (status %d): %s", resp.StatusCode(), resp.String())
	}

	// 解析回應
	var result struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		Done bool `json:"done"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse ollama response: %w", err)
	}

	if result.Message.Content == "" {
		return "", fmt.Errorf("empty content in ollama response")
	}

	common.LogInfo("Ollama 請求成功",
		zap.String("model", c.config.Ollama.Model),
		zap.Int("content_length", len(result.Message.Content)),
		zap.Duration("耗時", time.Since(start)),
	)

	return result.Message.Content, nil
}

// GetModel 獲取當前使用的模型名稱
func (c *Client) GetModel() string {
	return c.config.Ollama.Model
}

// GetTimeout 獲取請求超時時間
func (c *Client) GetTimeout() time.Duration {
	return c.config.Ollama.Timeout
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
