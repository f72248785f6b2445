package recipe

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"github.com/Jessi0803/kitchen-assistant/internal/pkg/common"
)

// 樣板食譜的固定素材
var (
	templateUnits        = []string{"cup", "tbsp", "piece", "clove", "oz"}
	templateDifficulties = []string{common.DifficultyEasy, common.DifficultyMedium, common.DifficultyHard}

	// 每份食譜都附上的基本調味料
	templateStaples = []common.Ingredient{
		{Name: "Salt", Amount: "1", Unit: "tsp"},
		{Name: "Black pepper", Amount: "1/2", Unit: "tsp"},
		{Name: "Olive oil", Amount: "2", Unit: "tbsp"},
	}
)

const templateMaxIngredients = 6

// TemplateEngine 樣板食譜引擎
// LLM 不可用或生成失敗時的備援，對任何合法請求都能產出完整食譜
type TemplateEngine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewTemplateEngine 建立樣板引擎，亂數來源由外部注入以便測試
func NewTemplateEngine(rng *rand.Rand) *TemplateEngine {
	return &TemplateEngine{rng: rng}
}

// Build 由請求組出一份完整食譜，永遠成功
func (e *TemplateEngine) Build(req common.RecipeRequest) common.Recipe {
	e.mu.Lock()
	defer e.mu.Unlock()

	mainIngredient := "Vegetable"
	if len(req.Ingredients) > 0 {
		mainIngredient = req.Ingredients[0]
	}

	// 取前幾項食材，其餘只會讓食譜變得冗長
	listed := req.Ingredients
	if len(listed) > templateMaxIngredients {
		listed = listed[:templateMaxIngredients]
	}

	ingredients := make([]common.Ingredient, 0, len(listed)+len(templateStaples))
	for _, name := range listed {
		item := common.Ingredient{
			Name:   name,
			Amount: strconv.Itoa(1 + e.rng.Intn(3)),
			Unit:   templateUnits[e.rng.Intn(len(templateUnits))],
		}
		if e.rng.Float64() > 0.7 {
			item.Notes = "fresh"
		}
		ingredients = append(ingredients, item)
	}
	ingredients = append(ingredients, templateStaples...)

	instructions := []common.Instruction{
		{
			Step: 1,
			Text: "Prepare all ingredients by washing, chopping, and measuring as needed.",
			Time: 10,
			Tips: "Having everything ready makes cooking smoother",
		},
		{
			Step:        2,
			Text:        "Heat olive oil in a large pan over medium-high heat.",
			Time:        3,
			Temperature: "Medium-high heat",
		},
		{
			Step: 3,
			Text: fmt.Sprintf("Add %s and other main ingredients to the pan.", strings.ToLower(mainIngredient)),
			Time: 8,
			Tips: "Don't overcrowd the pan",
		},
		{
			Step: 4,
			Text: "Season with salt and pepper, cook until tender and flavorful.",
			Time: 12,
			Tips: "Taste and adjust seasoning as needed",
		},
		{
			Step: 5,
			Text: "Serve hot and enjoy your homemade dish!",
			Tips: "Best enjoyed fresh and warm",
		},
	}

	tags := e.buildTags(req)

	return common.Recipe{
		Title:        fmt.Sprintf("%s %s", common.TitleCase(mainIngredient), common.TitleCase(req.MealCraving)),
		Description:  fmt.Sprintf("A delicious %s made with fresh ingredients from your fridge.", strings.ToLower(req.MealCraving)),
		PrepTime:     10 + e.rng.Intn(16),
		CookTime:     15 + e.rng.Intn(21),
		Servings:     2 + e.rng.Intn(5),
		Difficulty:   templateDifficulties[e.rng.Intn(len(templateDifficulties))],
		Ingredients:  ingredients,
		Instructions: instructions,
		Tags:         tags,
		NutritionInfo: &common.NutritionInfo{
			Calories: 200 + e.rng.Intn(301),
			Protein:  fmt.Sprintf("%dg", 10+e.rng.Intn(21)),
			Carbs:    fmt.Sprintf("%dg", 20+e.rng.Intn(31)),
			Fat:      fmt.Sprintf("%dg", 5+e.rng.Intn(16)),
			Fiber:    fmt.Sprintf("%dg", 3+e.rng.Intn(8)),
			Sugar:    fmt.Sprintf("%dg", 5+e.rng.Intn(11)),
			Sodium:   fmt.Sprintf("%dmg", 300+e.rng.Intn(501)),
		},
	}
}

// buildTags 依想吃的料理與偏好菜系組出標籤
func (e *TemplateEngine) buildTags(req common.RecipeRequest) []string {
	tags := []string{"Homemade", "Fresh Ingredients"}

	craving := strings.ToLower(req.MealCraving)
	switch {
	case strings.Contains(craving, "salad"):
		tags = append(tags, "Healthy", "Light")
	case strings.Contains(craving, "pasta"):
		tags = append(tags, "Italian", "Comfort Food")
	case strings.Contains(craving, "stir"):
		tags = append(tags, "Asian", "Quick")
	}

	if req.PreferredCuisine != "" && req.PreferredCuisine != "Any" {
		tags = append(tags, req.PreferredCuisine)
	}

	return tags
}
