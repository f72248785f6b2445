package detect

import (
	"fmt"
	"runtime"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/Jessi0803/kitchen-assistant/internal/infrastructure/config"
)

// Session 持有 ONNX 模型與輸入輸出張量
// 張量是會話內可變的緩衝區，推論呼叫必須序列化（見 Detector）
type Session struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]

	inputSize  int
	numAnchors int
	numClasses int
}

var ortInitialized bool

// InitRuntime 初始化 ONNX Runtime 環境，整個行程只需一次
func InitRuntime(libraryPath string) error {
	if ortInitialized {
		return nil
	}
	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize onnxruntime environment: %w", err)
	}
	ortInitialized = true
	return nil
}

// DestroyRuntime 關閉 ONNX Runtime 環境
func DestroyRuntime() {
	if ortInitialized {
		_ = ort.DestroyEnvironment()
		ortInitialized = false
	}
}

// anchorCount YOLOv8 在三個步幅（8/16/32）下的 anchor 總數
func anchorCount(inputSize int) int {
	s8 := inputSize / 8
	s16 := inputSize / 16
	s32 := inputSize / 32
	return s8*s8 + s16*s16 + s32*s32
}

// NewSession 載入模型並建立推論會話
// 輸入為 1x3xNxN 的 CHW 張量，輸出為 1x(4+nc)xA（A 為 anchor 數）
func NewSession(cfg config.DetectorConfig) (*Session, error) {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer options.Destroy()

	options.SetIntraOpNumThreads(runtime.NumCPU())
	options.SetInterOpNumThreads(runtime.NumCPU())

	numClasses := len(ClassNames(Variant(cfg.Variant)))
	numAnchors := anchorCount(cfg.InputSize)

	inputShape := ort.NewShape(1, 3, int64(cfg.InputSize), int64(cfg.InputSize))
	outputShape := ort.NewShape(1, int64(4+numClasses), int64(numAnchors))

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{"images"},
		[]string{"output0"},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create model session: %w", err)
	}

	return &Session{
		session:    session,
		input:      inputTensor,
		output:     outputTensor,
		inputSize:  cfg.InputSize,
		numAnchors: numAnchors,
		numClasses: numClasses,
	}, nil
}

// Destroy 釋放會話與張量
func (s *Session) Destroy() {
	if s == nil {
		return
	}
	if s.session != nil {
		s.session.Destroy()
	}
	if s.input != nil {
		s.input.Destroy()
	}
	if s.output != nil {
		s.output.Destroy()
	}
}
