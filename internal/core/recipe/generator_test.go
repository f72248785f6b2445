package recipe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jessi0803/kitchen-assistant/internal/infrastructure/config"
	"github.com/Jessi0803/kitchen-assistant/internal/pkg/common"
)

// fakeProvider 固定回覆的測試替身
type fakeProvider struct {
	response string
	err      error
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return p.response, p.err
}

func (p *fakeProvider) GetModel() string          { return "fake" }
func (p *fakeProvider) GetTimeout() time.Duration { return time.Second }
func (p *fakeProvider) Close() error              { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Ollama: config.OllamaConfig{
			Enabled: true,
			Model:   "fake",
			Timeout: time.Second,
		},
	}
}

const validRecipeJSON = `{
	"title": "Tomato Soup",
	"description": "Warm and simple.",
	"prepTime": 10,
	"cookTime": 20,
	"servings": 2,
	"difficulty": "Easy",
	"ingredients": [
		{"name": "Tomato", "amount": "4", "unit": "piece"},
		{"name": "Salt", "amount": "1", "unit": "tsp"}
	],
	"instructions": [
		{"step": 1, "text": "Chop tomatoes.", "time": 5},
		{"step": 2, "text": "Simmer until soft.", "time": 15}
	],
	"tags": ["Soup"],
	"nutritionInfo": {"calories": 150, "protein": "4g"}
}`

func testRequest() common.RecipeRequest {
	return common.RecipeRequest{
		Ingredients: []string{"Tomato"},
		MealCraving: "soup",
	}
}

func TestGenerateParsesCleanJSON(t *testing.T) {
	g := NewGenerator(&fakeProvider{response: validRecipeJSON}, nil, testConfig())

	recipe, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "Tomato Soup", recipe.Title)
	assert.Equal(t, common.DifficultyEasy, recipe.Difficulty)
	assert.Len(t, recipe.Ingredients, 2)
	assert.Len(t, recipe.Instructions, 2)
	require.NotNil(t, recipe.NutritionInfo)
	assert.Equal(t, 150, recipe.NutritionInfo.Calories)
}

func TestGenerateExtractsJSONFromProse(t *testing.T) {
	wrapped := "Sure! Here is your recipe:\n```json\n" + validRecipeJSON + "\n```\nEnjoy!"
	g := NewGenerator(&fakeProvider{response: wrapped}, nil, testConfig())

	recipe, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", recipe.Title)
}

func TestGenerateRenumbersSteps(t *testing.T) {
	response := `{
		"title": "X",
		"ingredients": [{"name": "A", "amount": "1"}],
		"instructions": [
			{"step": 3, "text": "first"},
			{"step": 9, "text": "second"}
		]
	}`
	g := NewGenerator(&fakeProvider{response: response}, nil, testConfig())

	recipe, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, recipe.Instructions[0].Step)
	assert.Equal(t, 2, recipe.Instructions[1].Step)
}

func TestGenerateFillsDefaults(t *testing.T) {
	response := `{
		"ingredients": [{"name": "A", "amount": "1"}],
		"instructions": [{"text": "do it"}],
		"difficulty": "Impossible"
	}`
	g := NewGenerator(&fakeProvider{response: response}, nil, testConfig())

	recipe, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, recipe.Title)
	assert.NotEmpty(t, recipe.Description)
	assert.Equal(t, common.DifficultyMedium, recipe.Difficulty)
	assert.Greater(t, recipe.PrepTime, 0)
	assert.Greater(t, recipe.CookTime, 0)
	assert.Greater(t, recipe.Servings, 0)
	assert.NotNil(t, recipe.Tags)
	assert.Nil(t, recipe.NutritionInfo)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{
			name:     "provider failure",
			response: "",
			err:      errors.New("connection refused"),
		},
		{
			name:     "no JSON object",
			response: "I cannot help with that.",
		},
		{
			name:     "no instructions",
			response: `{"title": "X", "ingredients": [{"name": "A", "amount": "1"}], "instructions": []}`,
		},
		{
			name:     "ingredient missing amount",
			response: `{"title": "X", "ingredients": [{"name": "A"}], "instructions": [{"text": "go"}]}`,
		},
		{
			name:     "instruction missing text",
			response: `{"title": "X", "ingredients": [{"name": "A", "amount": "1"}], "instructions": [{"step": 1}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(&fakeProvider{response: tt.response, err: tt.err}, nil, testConfig())
			_, err := g.Generate(context.Background(), testRequest())
			assert.Error(t, err)
		})
	}
}

func TestGenerateDisabledProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Ollama.Enabled = false
	g := NewGenerator(&fakeProvider{response: validRecipeJSON}, nil, cfg)

	_, err := g.Generate(context.Background(), testRequest())
	assert.Error(t, err)
}

func TestGenerateRecoversUnquotedKeys(t *testing.T) {
	response := `{
		title: "X",
		ingredients: [{name: "A", amount: "1"}],
		instructions: [{text: "go"}]
	}`
	g := NewGenerator(&fakeProvider{response: response}, nil, testConfig())

	recipe, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "X", recipe.Title)
}
