package common

import (
	"strings"
)

// DetectionResult 食材偵測結果
// 不變量：len(Ingredients) == len(Confidence)，且 Ingredients 不重複
type DetectionResult struct {
	Ingredients    []string  `json:"ingredients"`     // 偵測到的食材（依首次出現順序）
	Confidence     []float64 `json:"confidence"`      // 與食材逐一對齊的信心值
	ProcessingTime float64   `json:"processing_time"` // 處理耗時（秒）
}

// RecipeRequest 食譜生成請求
// 欄位名稱使用 camelCase，與 iOS 客戶端的契約一致
type RecipeRequest struct {
	Ingredients         []string `json:"ingredients" binding:"required"`
	MealCraving         string   `json:"mealCraving" binding:"required"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	PreferredCuisine    string   `json:"preferredCuisine"`
}

// Ingredient 食譜中的食材行
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// Instruction 食譜步驟，Step 從 1 開始且連續
type Instruction struct {
	Step        int    `json:"step"`
	Text        string `json:"text"`
	Time        int    `json:"time,omitempty"` // 分鐘
	Temperature string `json:"temperature,omitempty"`
	Tips        string `json:"tips,omitempty"`
}

// NutritionInfo 營養資訊，巨量營養素為帶單位的字串（如 "12g"）
type NutritionInfo struct {
	Calories int    `json:"calories,omitempty"`
	Protein  string `json:"protein,omitempty"`
	Carbs    string `json:"carbs,omitempty"`
	Fat      string `json:"fat,omitempty"`
	Fiber    string `json:"fiber,omitempty"`
	Sugar    string `json:"sugar,omitempty"`
	Sodium   string `json:"sodium,omitempty"`
}

// Recipe 食譜
// 回應欄位維持 snake_case，與原 API 契約一致
type Recipe struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	PrepTime      int            `json:"prep_time"`
	CookTime      int            `json:"cook_time"`
	Servings      int            `json:"servings"`
	Difficulty    string         `json:"difficulty"`
	Ingredients   []Ingredient   `json:"ingredients"`
	Instructions  []Instruction  `json:"instructions"`
	Tags          []string       `json:"tags"`
	NutritionInfo *NutritionInfo `json:"nutrition_info,omitempty"`
}

// 難度等級
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// IsValidDifficulty 檢查難度是否為合法值
func IsValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// FormatStringList 將字串切片轉換為逗號分隔的字串
func FormatStringList(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// TitleCase 將字串每個單字的首字母轉為大寫
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
