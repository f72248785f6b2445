package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassNames(t *testing.T) {
	assert.Len(t, ClassNames(VariantFineTuned), 11)
	assert.Len(t, ClassNames(VariantGeneric), 80)
}

func TestMapperFineTuned(t *testing.T) {
	m := NewMapper(VariantFineTuned)

	name, ok := m.Map("tomato")
	assert.True(t, ok)
	assert.Equal(t, "Tomato", name)

	// 大小寫不敏感
	name, ok = m.Map("BEEF")
	assert.True(t, ok)
	assert.Equal(t, "Beef", name)

	_, ok = m.Map("pizza")
	assert.False(t, ok, "pizza is not a fine-tuned class")
}

func TestMapperGenericFiltersNonFood(t *testing.T) {
	m := NewMapper(VariantGeneric)

	name, ok := m.Map("hot dog")
	assert.True(t, ok)
	assert.Equal(t, "Hot Dog", name)

	// 非食物類別一律過濾
	for _, raw := range []string{"person", "car", "laptop", "refrigerator"} {
		_, ok := m.Map(raw)
		assert.False(t, ok, "non-food class %q should be filtered", raw)
	}

	// 每個對照結果都必須能從某個 COCO 類別對回來
	for raw := range genericTable {
		assert.Contains(t, cocoClassNames, raw)
	}
}

func TestMapDetectionsDeduplicates(t *testing.T) {
	m := NewMapper(VariantFineTuned)

	detections := []RawDetection{
		{Label: "tomato", Confidence: 0.91},
		{Label: "carrot", Confidence: 0.85},
		{Label: "tomato", Confidence: 0.99}, // 同名後續偵測應被丟棄
		{Label: "person", Confidence: 0.97}, // 不在對照表內
	}

	ingredients, confidence := m.MapDetections(detections)

	assert.Equal(t, []string{"Tomato", "Carrot"}, ingredients)
	assert.Equal(t, []float64{0.91, 0.85}, confidence)
}

func TestMapDetectionsAlignment(t *testing.T) {
	m := NewMapper(VariantFineTuned)

	detections := []RawDetection{
		{Label: "milk", Confidence: 0.73456},
		{Label: "cheese", Confidence: 0.80111},
	}

	ingredients, confidence := m.MapDetections(detections)

	assert.Len(t, ingredients, len(confidence))
	// 信心值四捨五入到兩位
	assert.Equal(t, 0.73, confidence[0])
	assert.Equal(t, 0.8, confidence[1])
}

func TestMapDetectionsEmpty(t *testing.T) {
	m := NewMapper(VariantFineTuned)

	ingredients, confidence := m.MapDetections(nil)
	assert.Empty(t, ingredients)
	assert.Empty(t, confidence)
}
