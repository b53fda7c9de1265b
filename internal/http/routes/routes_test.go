package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blackarched/Prompt-Kraft/internal/config"
	"github.com/blackarched/Prompt-Kraft/internal/http/handlers"
	"github.com/blackarched/Prompt-Kraft/internal/services/batch"
	"github.com/blackarched/Prompt-Kraft/internal/services/processor"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	p := processor.NewPromptProcessor(0)
	engine := batch.NewService(config.BatchConfig{MaxWorkers: 2}, processor.DefaultConfig(), p, p, zap.NewNop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = engine.Shutdown(ctx)
	})

	h := handlers.NewBatchHandler(engine, nil, nil, zap.NewNop())
	th := handlers.NewTemplateHandler(processor.DefaultConfig(), p)
	return NewRouter(h, th, []string{"https://app.example"}, zap.NewNop()).SetupRoutes()
}

func TestRoutes(t *testing.T) {
	router := newTestEngine(t)

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		wantCode    int
	}{
		{name: "root", method: http.MethodGet, path: "/", wantCode: http.StatusOK},
		{name: "health", method: http.MethodGet, path: "/api/v1/health", wantCode: http.StatusOK},
		{name: "stats", method: http.MethodGet, path: "/api/v1/batch/stats", wantCode: http.StatusOK},
		{name: "unknown job", method: http.MethodGet, path: "/api/v1/batch/jobs/nope", wantCode: http.StatusNotFound},
		{name: "enhance", method: http.MethodPost, path: "/api/v1/enhance", contentType: "application/json", body: `{"user_input":"explain AI"}`, wantCode: http.StatusOK},
		{name: "enhance requires json", method: http.MethodPost, path: "/api/v1/enhance", contentType: "text/plain", body: "explain AI", wantCode: http.StatusUnsupportedMediaType},
		{name: "process", method: http.MethodPost, path: "/api/v1/batch/process", contentType: "application/json; charset=utf-8", body: `{"prompts":["a","b"]}`, wantCode: http.StatusOK},
		{name: "templates", method: http.MethodGet, path: "/api/v1/templates", wantCode: http.StatusOK},
		{name: "models", method: http.MethodGet, path: "/api/v1/models", wantCode: http.StatusOK},
		{name: "detect template", method: http.MethodPost, path: "/api/v1/detect-template", contentType: "application/json", body: `{"user_input":"explain AI"}`, wantCode: http.StatusOK},
		{name: "submit", method: http.MethodPost, path: "/api/v1/batch/jobs", contentType: "application/json", body: `{"prompts":["a"]}`, wantCode: http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestCORS(t *testing.T) {
	router := newTestEngine(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/batch/jobs", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSAllowAll(t *testing.T) {
	r := NewRouter(nil, nil, []string{"*"}, zap.NewNop())
	assert.True(t, r.corsConfig().AllowAllOrigins)
	assert.Empty(t, r.corsConfig().AllowOrigins)
}
