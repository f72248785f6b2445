package provider

import (
	"context"
	"time"
)

// Provider 定義文字生成後端介面
// 一次請求一次回應，不保留對話狀態
type Provider interface {
	// Generate 由提示詞生成一段文字回覆
	Generate(ctx context.Context, prompt string) (string, error)

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// GetTimeout 獲取請求超時時間
	GetTimeout() time.Duration

	// Close 關閉提供者連接
	Close() error
}
