package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jessi0803/kitchen-assistant/internal/core/detect"
	"github.com/Jessi0803/kitchen-assistant/internal/infrastructure/config"
)

func newTestRouter(ollamaEnabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App:    config.AppConfig{Version: "1.0.0"},
		Ollama: config.OllamaConfig{Enabled: ollamaEnabled},
	}

	handler := NewHandler(cfg, detect.NewDetector(nil, detect.VariantFineTuned))

	router := gin.New()
	router.GET("/", handler.Root)
	router.GET("/health", handler.Health)
	return router
}

func TestRoot(t *testing.T) {
	router := newTestRouter(false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message  string            `json:"message"`
		Version  string            `json:"version"`
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "Kitchen Assistant API", resp.Message)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "running", resp.Status)
	assert.Equal(t, "fallback", resp.Services["detection"])
	assert.Equal(t, "template", resp.Services["recipe_generation"])
}

func TestRootWithLLM(t *testing.T) {
	router := newTestRouter(true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp struct {
		Services map[string]string `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "llm", resp.Services["recipe_generation"])
}

func TestHealth(t *testing.T) {
	router := newTestRouter(false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status         string  `json:"status"`
		Timestamp      float64 `json:"timestamp"`
		DetectorLoaded bool    `json:"detector_loaded"`
		LLMAvailable   bool    `json:"llm_available"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "healthy", resp.Status)
	assert.Greater(t, resp.Timestamp, 0.0)
	assert.False(t, resp.DetectorLoaded)
	assert.False(t, resp.LLMAvailable)
}
