package recipe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Jessi0803/kitchen-assistant/internal/core/ai/cache"
	"github.com/Jessi0803/kitchen-assistant/internal/core/ai/provider"
	"github.com/Jessi0803/kitchen-assistant/internal/infrastructure/config"
	"github.com/Jessi0803/kitchen-assistant/internal/pkg/common"
)

// Generator 透過 LLM 生成食譜
// 生成失敗以 error 回報，由呼叫端決定是否退回樣板引擎
type Generator struct {
	provider provider.Provider
	cache    *cache.Manager
	config   *config.Config
}

// NewGenerator 創建食譜生成器
func NewGenerator(p provider.Provider, cacheManager *cache.Manager, cfg *config.Config) *Generator {
	return &Generator{
		provider: p,
		cache:    cacheManager,
		config:   cfg,
	}
}

// Generate 生成食譜
func (g *Generator) Generate(ctx context.Context, req common.RecipeRequest) (*common.Recipe, error) {
	if g.provider == nil || !g.config.Ollama.Enabled {
		return nil, fmt.Errorf("llm provider is not available")
	}

	prompt := g.buildPrompt(req)

	// 先查快取，同樣的提示詞不重打 LLM
	if cached, err := g.cache.Get(ctx, prompt); err == nil {
		if recipe, err := g.parseResponse(cached); err == nil {
			common.LogDebug("食譜快取命中")
			return recipe, nil
		}
	}

	start := time.Now()
	raw, err := g.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate recipe: %w", err)
	}

	recipe, err := g.parseResponse(raw)
	if err != nil {
		common.LogWarn("LLM 回覆解析失敗",
			zap.Error(err),
			zap.Int("response_length", len(raw)),
		)
		return nil, fmt.Errorf("failed to parse recipe response: %w", err)
	}

	common.LogInfo("食譜生成成功",
		zap.String("title", recipe.Title),
		zap.Duration("耗時", time.Since(start)),
	)

	// 只快取解析成功的回覆
	if err := g.cache.Set(ctx, prompt, raw); err != nil && err != common.ErrCacheFull {
		common.LogDebug("食譜快取寫入失敗", zap.Error(err))
	}

	return recipe, nil
}

// buildPrompt 組出單輪對話的提示詞，要求模型只回傳 JSON 物件
func (g *Generator) buildPrompt(req common.RecipeRequest) string {
	var b strings.Builder

	b.WriteString("You are a professional chef AI. Create a detailed recipe.\n\n")
	b.WriteString(fmt.Sprintf("Available Ingredients: %s\n", common.FormatStringList(req.Ingredients)))
	b.WriteString(fmt.Sprintf("Dish Type: %s\n", req.MealCraving))
	b.WriteString(fmt.Sprintf("Dietary Restrictions: %s\n", common.FormatStringList(req.DietaryRestrictions)))
	b.WriteString(fmt.Sprintf("Preferred Cuisine: %s\n\n", req.PreferredCuisine))
	b.WriteString(`Return ONLY a JSON object with this exact structure:
{
  "title": "Recipe Name",
  "description": "Brief description",
  "prepTime": 15,
  "cookTime": 30,
  "servings": 4,
  "difficulty": "Easy",
  "ingredients": [
    {"name": "ingredient", "amount": "1", "unit": "cup", "notes": null}
  ],
  "instructions": [
    {"step": 1, "text": "instruction", "time": 5, "temperature": null, "tips": null}
  ],
  "tags": ["tag1"],
  "nutritionInfo": {
    "calories": 350,
    "protein": "20g",
    "carbs": "40g",
    "fat": "15g",
    "fiber": "5g",
    "sugar": "5g",
    "sodium": "400mg"
  }
}`)

	return b.String()
}

// llmRecipe LLM 回覆的中間結構，欄位用指標以區分「缺欄位」和「零值」
type llmRecipe struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	PrepTime     *int             `json:"prepTime"`
	CookTime     *int             `json:"cookTime"`
	Servings     *int             `json:"servings"`
	Difficulty   string           `json:"difficulty"`
	Ingredients  []llmIngredient  `json:"ingredients"`
	Instructions []llmInstruction `json:"instructions"`
	Tags         []string         `json:"tags"`
	Nutrition    *llmNutrition    `json:"nutritionInfo"`
}

type llmIngredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
	Notes  string `json:"notes"`
}

type llmInstruction struct {
	Step        int    `json:"step"`
	Text        string `json:"text"`
	Time        int    `json:"time"`
	Temperature string `json:"temperature"`
	Tips        string `json:"tips"`
}

type llmNutrition struct {
	Calories int    `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
	Fiber    string `json:"fiber"`
	Sugar    string `json:"sugar"`
	Sodium   string `json:"sodium"`
}

// parseResponse 解析 LLM 回覆為食譜
// 頂層欄位缺失時補預設值；食材與步驟是硬性契約，不合格直接回錯誤
func (g *Generator) parseResponse(raw string) (*common.Recipe, error) {
	jsonStr, err := common.ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var parsed llmRecipe
	if err := common.ParseJSON(jsonStr, &parsed); err != nil {
		// 小模型偶爾漏掉鍵的引號，補上後重試一次
		if retryErr := common.ParseJSON(common.QuoteJSONKeys(jsonStr), &parsed); retryErr != nil {
			return nil, err
		}
	}

	if len(parsed.Instructions) == 0 {
		return nil, fmt.Errorf("recipe has no instructions")
	}

	ingredients := make([]common.Ingredient, 0, len(parsed.Ingredients))
	for i, item := range parsed.Ingredients {
		if item.Name == "" || item.Amount == "" {
			return nil, fmt.Errorf("ingredient %d is missing name or amount", i+1)
		}
		ingredients = append(ingredients, common.Ingredient{
			Name:   item.Name,
			Amount: item.Amount,
			Unit:   item.Unit,
			Notes:  item.Notes,
		})
	}
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("recipe has no ingredients")
	}

	instructions := make([]common.Instruction, 0, len(parsed.Instructions))
	for i, item := range parsed.Instructions {
		if item.Text == "" {
			return nil, fmt.Errorf("instruction %d is missing text", i+1)
		}
		instructions = append(instructions, common.Instruction{
			// 不信任模型給的編號，一律重編為 1..n
			Step:        i + 1,
			Text:        item.Text,
			Time:        item.Time,
			Temperature: item.Temperature,
			Tips:        item.Tips,
		})
	}

	recipe := &common.Recipe{
		Title:        parsed.Title,
		Description:  parsed.Description,
		Difficulty:   parsed.Difficulty,
		Ingredients:  ingredients,
		Instructions: instructions,
		Tags:         parsed.Tags,
	}

	// 頂層欄位缺失時用保守的預設值補齊
	if recipe.Title == "" {
		recipe.Title = "Generated Recipe"
	}
	if recipe.Description == "" {
		recipe.Description = "A recipe created from your available ingredients."
	}
	if !common.IsValidDifficulty(recipe.Difficulty) {
		recipe.Difficulty = common.DifficultyMedium
	}
	if parsed.PrepTime != nil && *parsed.PrepTime > 0 {
		recipe.PrepTime = *parsed.PrepTime
	} else {
		recipe.PrepTime = 15
	}
	if parsed.CookTime != nil && *parsed.CookTime > 0 {
		recipe.CookTime = *parsed.CookTime
	} else {
		recipe.CookTime = 30
	}
	if parsed.Servings != nil && *parsed.Servings > 0 {
		recipe.Servings = *parsed.Servings
	} else {
		recipe.Servings = 4
	}
	if recipe.Tags == nil {
		recipe.Tags = []string{}
	}
	if parsed.Nutrition != nil {
		recipe.NutritionInfo = &common.NutritionInfo{
			Calories: parsed.Nutrition.Calories,
			Protein:  parsed.Nutrition.Protein,
			Carbs:    parsed.Nutrition.Carbs,
			Fat:      parsed.Nutrition.Fat,
			Fiber:    parsed.Nutrition.Fiber,
			Sugar:    parsed.Nutrition.Sugar,
			Sodium:   parsed.Nutrition.Sodium,
		}
	}

	return recipe, nil
}
