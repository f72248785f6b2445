package api

import (
	"math/rand"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	detectHandler "github.com/Jessi0803/kitchen-assistant/internal/api/handlers/detect"
	"github.com/Jessi0803/kitchen-assistant/internal/api/handlers/health"
	recipesHandler "github.com/Jessi0803/kitchen-assistant/internal/api/handlers/recipes"
	"github.com/Jessi0803/kitchen-assistant/internal/api/middleware"
	"github.com/Jessi0803/kitchen-assistant/internal/core/ai/cache"
	"github.com/Jessi0803/kitchen-assistant/internal/core/ai/ollama"
	"github.com/Jessi0803/kitchen-assistant/internal/core/detect"
	imagesvc "github.com/Jessi0803/kitchen-assistant/internal/core/image"
	"github.com/Jessi0803/kitchen-assistant/internal/core/recipe"
	"github.com/Jessi0803/kitchen-assistant/internal/infrastructure/config"
	"github.com/Jessi0803/kitchen-assistant/internal/pkg/common"
)

// SetupRouter 設置路由
// engine 為啟動時載入的偵測模型，載入失敗時傳 nil，
// 非 strict 模式下端點仍可用（退回備援結果）
func SetupRouter(cfg *config.Config, cacheManager *cache.Manager, engine detect.Engine) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Image.MaxSizeBytes))

	// 初始化服務
	mapper := detect.NewMapper(detect.Variant(cfg.Detector.Variant))
	mock := detect.NewMockDetector(rand.New(rand.NewSource(time.Now().UnixNano())))
	imageService := imagesvc.NewService(cfg.Image.MaxSizeBytes)
	templateEngine := recipe.NewTemplateEngine(rand.New(rand.NewSource(time.Now().UnixNano())))

	var generator recipesHandler.Generator
	if cfg.Ollama.Enabled {
		generator = recipe.NewGenerator(ollama.NewClient(cfg), cacheManager, cfg)
		common.LogInfo("LLM 食譜生成已啟用",
			zap.String("host", cfg.Ollama.Host),
			zap.String("model", cfg.Ollama.Model),
		)
	} else {
		common.LogInfo("LLM 食譜生成未啟用，一律使用樣板食譜")
	}

	healthH := health.NewHandler(cfg, engine)
	detectH := detectHandler.NewHandler(engine, mapper, mock, imageService, cfg)
	recipesH := recipesHandler.NewHandler(generator, templateEngine)

	// 健康檢查路由
	router.GET("/", healthH.Root)
	router.GET("/health", healthH.Health)

	// API 路由組，去重與限流只掛在會做重活的端點上
	api := router.Group("/api")
	if cfg.DedupWindow > 0 {
		api.Use(middleware.NewDeduplicator(cfg.DedupWindow).Handler())
	}
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	{
		api.POST("/detect", detectH.Detect)
		api.POST("/recipes", recipesH.Generate)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("detector_loaded", engine != nil && engine.Loaded()),
		zap.String("detector_variant", cfg.Detector.Variant),
		zap.Bool("detector_strict", cfg.Detector.Strict),
		zap.Bool("llm_enabled", cfg.Ollama.Enabled),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Int64("max_body_size", cfg.Image.MaxSizeBytes),
	)

	return router, nil
}
