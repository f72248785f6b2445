package recipes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jessi0803/kitchen-assistant/internal/core/recipe"
	"github.com/Jessi0803/kitchen-assistant/internal/pkg/common"
)

// fakeGenerator 記錄收到的請求並回傳固定結果
type fakeGenerator struct {
	lastRequest common.RecipeRequest
	result      *common.Recipe
	err         error
}

func (g *fakeGenerator) Generate(ctx context.Context, req common.RecipeRequest) (*common.Recipe, error) {
	g.lastRequest = req
	return g.result, g.err
}

func newTestRouter(generator Generator) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(generator, recipe.NewTemplateEngine(rand.New(rand.NewSource(1))))

	router := gin.New()
	router.POST("/api/recipes", handler.Generate)
	return router
}

func doGenerate(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateInvalidBody(t *testing.T) {
	router := newTestRouter(nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "plain text"},
		{name: "missing mealCraving", body: `{"ingredients": ["Tomato"]}`},
		{name: "missing ingredients", body: `{"mealCraving": "pasta"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGenerate(t, router, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

			var resp common.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Detail)
		})
	}
}

func TestGenerateUsesLLMResult(t *testing.T) {
	generated := &common.Recipe{
		Title:        "LLM Soup",
		Description:  "made by the model",
		PrepTime:     10,
		CookTime:     20,
		Servings:     2,
		Difficulty:   common.DifficultyEasy,
		Ingredients:  []common.Ingredient{{Name: "Tomato", Amount: "2"}},
		Instructions: []common.Instruction{{Step: 1, Text: "Cook."}},
		Tags:         []string{"Soup"},
	}
	gen := &fakeGenerator{result: generated}
	router := newTestRouter(gen)

	w := doGenerate(t, router, `{"ingredients": ["Tomato"], "mealCraving": "soup"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var result common.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "LLM Soup", result.Title)
}

func TestGenerateFallsBackOnError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("ollama is down")}
	router := newTestRouter(gen)

	w := doGenerate(t, router, `{"ingredients": ["Tomato", "Basil"], "mealCraving": "pasta"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var result common.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Tomato Pasta", result.Title)
	require.Len(t, result.Instructions, 5)
	assert.Contains(t, result.Tags, "Italian")
}

func TestGenerateWithoutGenerator(t *testing.T) {
	router := newTestRouter(nil)

	w := doGenerate(t, router, `{"ingredients": ["Carrot"], "mealCraving": "salad"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var result common.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Carrot Salad", result.Title)
	assert.Contains(t, result.Tags, "Healthy")
}

func TestGenerateDefaultsCuisine(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("always fail")}
	router := newTestRouter(gen)

	doGenerate(t, router, `{"ingredients": ["Tomato"], "mealCraving": "soup"}`)

	assert.Equal(t, "Any", gen.lastRequest.PreferredCuisine)
}

func TestGenerateKeepsGivenCuisine(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("always fail")}
	router := newTestRouter(gen)

	w := doGenerate(t, router, `{"ingredients": ["Tomato"], "mealCraving": "soup", "preferredCuisine": "Thai", "dietaryRestrictions": ["vegan"]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Thai", gen.lastRequest.PreferredCuisine)
	assert.Equal(t, []string{"vegan"}, gen.lastRequest.DietaryRestrictions)

	var result common.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Contains(t, result.Tags, "Thai")
}
