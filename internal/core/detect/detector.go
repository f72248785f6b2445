package detect

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/Jessi0803/kitchen-assistant/internal/pkg/common"
)

// RawDetection 模型輸出的單筆偵測，標籤尚未經過顯示名稱對照
type RawDetection struct {
	Label      string
	Confidence float64
	Box        [4]int32 // x1, y1, x2, y2（原圖座標）
}

// Engine 偵測引擎介面，方便在測試中替換
type Engine interface {
	// Detect 對單張圖片做一次前向推論，只保留信心值達門檻的偵測
	Detect(ctx context.Context, img image.Image, threshold float64) ([]RawDetection, error)
	// Loaded 回報模型是否在啟動時成功載入
	Loaded() bool
}

// Detector 包裝已載入的 ONNX 模型
// 模型在啟動時載入一次，之後唯讀共用；session 的張量緩衝區
// 是可變狀態，因此用 mutex 序列化 Run 呼叫
type Detector struct {
	session *Session
	names   []string
	mu      sync.Mutex
}

// NewDetector 以已建立的會話建立偵測器；session 為 nil 表示載入失敗
func NewDetector(session *Session, variant Variant) *Detector {
	return &Detector{
		session: session,
		names:   ClassNames(variant),
	}
}

// Loaded 模型是否可用
func (d *Detector) Loaded() bool {
	return d != nil && d.session != nil
}

// Detect 單張圖片推論
// 推論期間的 runtime 錯誤一律視為「沒有偵測結果」，不向上拋硬錯誤
func (d *Detector) Detect(ctx context.Context, img image.Image, threshold float64) (dets []RawDetection, err error) {
	if !d.Loaded() {
		return nil, fmt.Errorf("detection model not loaded")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			common.LogError("推論過程發生 panic，視為無偵測結果",
				zap.Any("panic", r),
			)
			dets = nil
			err = nil
		}
	}()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.prepareInput(img)

	if runErr := d.session.session.Run(); runErr != nil {
		common.LogWarn("模型推論失敗，視為無偵測結果",
			zap.Error(runErr),
		)
		return nil, nil
	}

	return d.decodeOutput(img.Bounds().Dx(), img.Bounds().Dy(), threshold), nil
}

// prepareInput 縮放圖片並填入 CHW 正規化張量
func (d *Detector) prepareInput(img image.Image) {
	size := d.session.inputSize
	resized := imaging.Resize(img, size, size, imaging.Lanczos)

	data := d.session.input.GetData()
	channelSize := size * size

	for y := 0; y < size; y++ {
		offset := y * size
		for x := 0; x < size; x++ {
			i := offset + x
			r, g, b, _ := resized.At(x, y).RGBA()
			data[i] = float32(r>>8) / 255.0
			data[channelSize+i] = float32(g>>8) / 255.0
			data[channelSize*2+i] = float32(b>>8) / 255.0
		}
	}
}

// decodeOutput 解析 YOLOv8 輸出
// 輸出佈局為 (4+nc)xA：前 4 列是中心座標與寬高，之後每列是一個類別的分數
// 每個 anchor 取分數最高的類別當作偵測標籤
func (d *Detector) decodeOutput(origWidth, origHeight int, threshold float64) []RawDetection {
	predictions := d.session.output.GetData()
	numAnchors := d.session.numAnchors
	numClasses := d.session.numClasses

	detections := make([]RawDetection, 0, 32)

	for i := 0; i < numAnchors; i++ {
		bestClass := -1
		bestScore := float32(0)
		for c := 0; c < numClasses; c++ {
			score := predictions[(4+c)*numAnchors+i]
			if score > bestScore {
				bestScore = score
				bestClass = c
			}
		}

		if bestClass < 0 || float64(bestScore) < threshold {
			continue
		}

		detections = append(detections, RawDetection{
			Label:      d.names[bestClass],
			Confidence: float64(bestScore),
			Box: d.scaleBox(
				predictions[i],
				predictions[numAnchors+i],
				predictions[2*numAnchors+i],
				predictions[3*numAnchors+i],
				float32(origWidth),
				float32(origHeight),
			),
		})
	}

	return detections
}

// scaleBox 將中心座標格式換算回原圖角點座標
func (d *Detector) scaleBox(cx, cy, w, h, origWidth, origHeight float32) [4]int32 {
	size := float32(d.session.inputSize)
	scaleX := origWidth / size
	scaleY := origHeight / size

	x1 := (cx - w/2) * scaleX
	y1 := (cy - h/2) * scaleY
	x2 := (cx + w/2) * scaleX
	y2 := (cy + h/2) * scaleY

	return [4]int32{
		int32(clamp(x1, 0, origWidth)),
		int32(clamp(y1, 0, origHeight)),
		int32(clamp(x2, 0, origWidth)),
		int32(clamp(y2, 0, origHeight)),
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
