package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Jessi0803/kitchen-assistant/internal/api"
	"github.com/Jessi0803/kitchen-assistant/internal/core/ai/cache"
	"github.com/Jessi0803/kitchen-assistant/internal/core/detect"
	"github.com/Jessi0803/kitchen-assistant/internal/infrastructure/config"
	"github.com/Jessi0803/kitchen-assistant/internal/pkg/common"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("detector_variant", cfg.Detector.Variant),
		zap.String("detector_model", cfg.Detector.ModelPath),
		zap.Bool("ollama_enabled", cfg.Ollama.Enabled),
		zap.String("ollama_model", cfg.Ollama.Model),
	)

	// 初始化快取
	cacheManager := cache.NewManager(cfg)
	if cfg.Cache.Enabled && cacheManager == nil {
		common.LogFatal("Failed to initialize cache manager")
	}
	defer cacheManager.Close()

	// 載入偵測模型
	// 載入失敗不擋啟動：非 strict 模式下偵測端點退回備援結果
	engine, session := loadDetector(cfg)
	defer session.Destroy()
	defer detect.DestroyRuntime()

	// 設置路由
	router, err := api.SetupRouter(cfg, cacheManager, engine)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}

// loadDetector 初始化 ONNX Runtime 並載入模型
// 任一步失敗都記錄錯誤並回傳未載入的偵測器
func loadDetector(cfg *config.Config) (detect.Engine, *detect.Session) {
	if !cfg.Detector.Enabled {
		common.LogInfo("偵測模型未啟用")
		return detect.NewDetector(nil, detect.Variant(cfg.Detector.Variant)), nil
	}

	if err := detect.InitRuntime(cfg.Detector.LibraryPath); err != nil {
		common.LogError("ONNX Runtime 初始化失敗",
			zap.Error(err),
			zap.String("library_path", cfg.Detector.LibraryPath),
		)
		return detect.NewDetector(nil, detect.Variant(cfg.Detector.Variant)), nil
	}

	session, err := detect.NewSession(cfg.Detector)
	if err != nil {
		common.LogError("偵測模型載入失敗",
			zap.Error(err),
			zap.String("model_path", cfg.Detector.ModelPath),
		)
		return detect.NewDetector(nil, detect.Variant(cfg.Detector.Variant)), nil
	}

	common.LogInfo("偵測模型已載入",
		zap.String("model_path", cfg.Detector.ModelPath),
		zap.String("variant", cfg.Detector.Variant),
		zap.Int("input_size", cfg.Detector.InputSize),
	)

	return detect.NewDetector(session, detect.Variant(cfg.Detector.Variant)), session
}
