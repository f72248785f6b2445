package detect

import (
	"math"
	"strings"
)

// Variant 標籤對照表的部署變體
type Variant string

const (
	// VariantFineTuned 食材專用微調模型（11 類）
	VariantFineTuned Variant = "finetuned"
	// VariantGeneric COCO 通用模型，只保留與食物相關的類別
	VariantGeneric Variant = "generic"
)

// fineTunedClassNames 微調模型的類別向量順序（資料集合併時按字母排序）
var fineTunedClassNames = []string{
	"beef", "broccoli", "butter", "carrot", "cheese", "chicken",
	"cucumber", "lettuce", "milk", "pork", "tomato",
}

// fineTunedTable 微調模型的原始標籤到顯示名稱對照
var fineTunedTable = map[string]string{
	"beef":     "Beef",
	"pork":     "Pork",
	"chicken":  "Chicken",
	"butter":   "Butter",
	"cheese":   "Cheese",
	"milk":     "Milk",
	"broccoli": "Broccoli",
	"carrot":   "Carrot",
	"cucumber": "Cucumber",
	"lettuce":  "Lettuce",
	"tomato":   "Tomato",
}

// cocoClassNames COCO 80 類的類別向量順序
var cocoClassNames = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train",
	"truck", "boat", "traffic light", "fire hydrant", "stop sign",
	"parking meter", "bench", "bird", "cat", "dog", "horse", "sheep",
	"cow", "elephant", "bear", "zebra", "giraffe", "backpack", "umbrella",
	"handbag", "tie", "suitcase", "frisbee", "skis", "snowboard",
	"sports ball", "kite", "baseball bat", "baseball glove", "skateboard",
	"surfboard", "tennis racket", "bottle", "wine glass", "cup", "fork",
	"knife", "spoon", "bowl", "banana", "apple", "sandwich", "orange",
	"broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv",
	"laptop", "mouse", "remote", "keyboard", "cell phone", "microwave",
	"oven", "toaster", "sink", "refrigerator", "book", "clock", "vase",
	"scissors", "teddy bear", "hair drier", "toothbrush",
}

// genericTable 通用模型中與食物相關的類別對照，其餘類別一律過濾
var genericTable = map[string]string{
	"banana":   "Banana",
	"apple":    "Apple",
	"sandwich": "Sandwich",
	"orange":   "Orange",
	"broccoli": "Broccoli",
	"carrot":   "Carrot",
	"hot dog":  "Hot Dog",
	"pizza":    "Pizza",
	"donut":    "Donut",
	"cake":     "Cake",
}

// ClassNames 取得指定變體的模型類別向量
func ClassNames(v Variant) []string {
	if v == VariantGeneric {
		return cocoClassNames
	}
	return fineTunedClassNames
}

// Mapper 原始標籤到顯示名稱的對照器
type Mapper struct {
	variant Variant
	table   map[string]string
}

// NewMapper 依部署變體建立對照器
func NewMapper(v Variant) *Mapper {
	table := fineTunedTable
	if v == VariantGeneric {
		table = genericTable
	}
	return &Mapper{
		variant: v,
		table:   table,
	}
}

// Variant 回傳對照器使用的變體
func (m *Mapper) Variant() Variant {
	return m.variant
}

// Map 查詢顯示名稱，查詢前先轉小寫；不在表內代表非食物類別
func (m *Mapper) Map(raw string) (string, bool) {
	name, ok := m.table[strings.ToLower(raw)]
	return name, ok
}

// MapDetections 將原始偵測結果轉為顯示名稱並去重
// 以首次出現（偵測順序）為準，同名的後續偵測直接丟棄，不合併也不取平均
func (m *Mapper) MapDetections(detections []RawDetection) ([]string, []float64) {
	ingredients := make([]string, 0, len(detections))
	confidence := make([]float64, 0, len(detections))
	seen := make(map[string]bool, len(detections))

	for _, det := range detections {
		name, ok := m.Map(det.Label)
		if !ok {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		ingredients = append(ingredients, name)
		confidence = append(confidence, round2(det.Confidence))
	}

	return ingredients, confidence
}

// round2 四捨五入到小數點後兩位
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
