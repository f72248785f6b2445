package detect

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Jessi0803/kitchen-assistant/internal/core/detect"
	imagesvc "github.com/Jessi0803/kitchen-assistant/internal/core/image"
	"github.com/Jessi0803/kitchen-assistant/internal/infrastructure/config"
	"github.com/Jessi0803/kitchen-assistant/internal/pkg/common"
)

// Handler 食材偵測端點
// 偵測管線：解碼圖片 -> 模型推論 -> 標籤對照去重
// strict 模式忠實回報失敗；否則任何失敗都退回 mock 結果
type Handler struct {
	engine   detect.Engine
	mapper   *detect.Mapper
	mock     *detect.MockDetector
	imageSvc *imagesvc.Service
	config   *config.Config
}

// NewHandler 創建偵測處理器
func NewHandler(engine detect.Engine, mapper *detect.Mapper, mock *detect.MockDetector, svc *imagesvc.Service, cfg *config.Config) *Handler {
	return &Handler{
		engine:   engine,
		mapper:   mapper,
		mock:     mock,
		imageSvc: svc,
		config:   cfg,
	}
}

// Detect 處理 POST /api/detect
func (h *Handler) Detect(c *gin.Context) {
	start := time.Now()

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Detail: "Image file is required",
		})
		return
	}

	// 內容類型必須是 image/*，在讀檔前就擋掉
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(common.ErrNotAnImage.Status, common.ErrorResponse{
			Detail: common.ErrNotAnImage.Message,
		})
		return
	}

	strict := h.config.Detector.Strict

	if h.engine == nil || !h.engine.Loaded() {
		if strict {
			c.JSON(common.ErrModelUnavailable.Status, common.ErrorResponse{
				Detail: common.ErrModelUnavailable.Message,
			})
			return
		}
		h.respondMock(c, start)
		return
	}

	data, err := h.readFile(fileHeader)
	if err != nil {
		h.fail(c, start, fmt.Errorf("failed to read image file: %w", err))
		return
	}

	img, format, err := h.imageSvc.Decode(data)
	if err != nil {
		h.fail(c, start, err)
		return
	}

	raw, err := h.engine.Detect(c.Request.Context(), img, h.config.Detector.ConfidenceThreshold)
	if err != nil {
		h.fail(c, start, err)
		return
	}

	ingredients, confidence := h.mapper.MapDetections(raw)

	if len(ingredients) == 0 {
		if strict {
			c.JSON(common.ErrNoFoodDetected.Status, common.ErrorResponse{
				Detail: common.ErrNoFoodDetected.Message,
			})
			return
		}
		common.LogInfo("無食材偵測結果，改用備援偵測",
			zap.String("format", format),
			zap.Int("raw_detections", len(raw)),
		)
		h.respondMock(c, start)
		return
	}

	common.LogInfo("食材偵測完成",
		zap.Int("count", len(ingredients)),
		zap.Strings("ingredients", ingredients),
		zap.Duration("耗時", time.Since(start)),
	)

	c.JSON(http.StatusOK, common.DetectionResult{
		Ingredients:    ingredients,
		Confidence:     confidence,
		ProcessingTime: time.Since(start).Seconds(),
	})
}

// fail 推論管線失敗時的出口：strict 回 500，否則退回 mock
func (h *Handler) fail(c *gin.Context, start time.Time, err error) {
	common.LogError("偵測失敗", zap.Error(err))

	if h.config.Detector.Strict {
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Detail: fmt.Sprintf("Detection failed: %s", err.Error()),
		})
		return
	}
	h.respondMock(c, start)
}

// respondMock 以備援偵測結果回應
func (h *Handler) respondMock(c *gin.Context, start time.Time) {
	ingredients, confidence := h.mock.Detect()
	c.JSON(http.StatusOK, common.DetectionResult{
		Ingredients:    ingredients,
		Confidence:     confidence,
		ProcessingTime: time.Since(start).Seconds(),
	})
}

func (h *Handler) readFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
