package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jessi0803/kitchen-assistant/internal/core/detect"
	"github.com/Jessi0803/kitchen-assistant/internal/infrastructure/config"
)

// Handler 服務狀態端點
type Handler struct {
	config *config.Config
	engine detect.Engine
}

// NewHandler 創建健康檢查處理器
func NewHandler(cfg *config.Config, engine detect.Engine) *Handler {
	return &Handler{
		config: cfg,
		engine: engine,
	}
}

// Root 服務入口，回報各子服務狀態
func (h *Handler) Root(c *gin.Context) {
	detection := "fallback"
	if h.engine != nil && h.engine.Loaded() {
		detection = "available"
	}

	recipeGeneration := "template"
	if h.config.Ollama.Enabled {
		recipeGeneration = "llm"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Kitchen Assistant API",
		"version": h.config.App.Version,
		"status":  "running",
		"services": gin.H{
			"detection":         detection,
			"recipe_generation": recipeGeneration,
		},
	})
}

// Health 健康檢查
// timestamp 為 epoch 秒數的浮點數，與既有客戶端的解析一致
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"timestamp":       float64(time.Now().UnixNano()) / float64(time.Second),
		"detector_loaded": h.engine != nil && h.engine.Loaded(),
		"llm_available":   h.config.Ollama.Enabled,
	})
}
