package recipes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Jessi0803/kitchen-assistant/internal/core/recipe"
	"github.com/Jessi0803/kitchen-assistant/internal/pkg/common"
)

// Generator 食譜生成介面，方便在測試中替換
type Generator interface {
	Generate(ctx context.Context, req common.RecipeRequest) (*common.Recipe, error)
}

// Handler 食譜生成端點
// 先走 LLM 生成器，失敗時退回樣板引擎，因此回應一定是 200 或 422
type Handler struct {
	generator Generator
	template  *recipe.TemplateEngine
}

// NewHandler 創建食譜處理器
func NewHandler(generator Generator, template *recipe.TemplateEngine) *Handler {
	return &Handler{
		generator: generator,
		template:  template,
	}
}

// Generate 處理 POST /api/recipes
func (h *Handler) Generate(c *gin.Context) {
	var req common.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, common.ErrorResponse{
			Detail: err.Error(),
		})
		return
	}

	// 與既有客戶端的預設值一致
	if req.PreferredCuisine == "" {
		req.PreferredCuisine = "Any"
	}

	if h.generator != nil {
		result, err := h.generator.Generate(c.Request.Context(), req)
		if err == nil {
			c.JSON(http.StatusOK, result)
			return
		}
		common.LogWarn("LLM 生成失敗，改用樣板食譜",
			zap.Error(err),
			zap.String("craving", req.MealCraving),
		)
	}

	c.JSON(http.StatusOK, h.template.Build(req))
}
