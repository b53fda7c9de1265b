package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blackarched/Prompt-Kraft/internal/config"
	"github.com/blackarched/Prompt-Kraft/internal/models"
	"github.com/blackarched/Prompt-Kraft/internal/services/batch"
	"github.com/blackarched/Prompt-Kraft/internal/services/processor"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type fakeStorage struct {
	health     map[string]string
	cacheStats map[string]interface{}
}

func (s *fakeStorage) HealthCheck(context.Context) map[string]string { return s.health }

func (s *fakeStorage) GetCacheStats(context.Context) (map[string]interface{}, error) {
	if s.cacheStats == nil {
		return nil, errors.New("unavailable")
	}
	return s.cacheStats, nil
}

func (s *fakeStorage) CacheEnabled() bool { return true }

func newTestEngine(t *testing.T) *batch.Service {
	t.Helper()

	p := processor.NewPromptProcessor(0)
	engine := batch.NewService(config.BatchConfig{
		MaxWorkers:           4,
		MaxConcurrentBatches: 2,
		CleanupInterval:      50 * time.Millisecond,
		RetryBackoff:         time.Millisecond,
	}, processor.DefaultConfig(), p, p, zap.NewNop())

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = engine.Shutdown(ctx)
	})
	return engine
}

func newTestRouter(h *BatchHandler) *gin.Engine {
	r := gin.New()
	r.GET("/health", h.HealthCheck)
	r.GET("/stats", h.GetStats)
	r.POST("/enhance", h.Enhance)
	r.POST("/process", h.ProcessBatch)
	r.POST("/jobs", h.SubmitJob)
	r.GET("/jobs/:id", h.GetJobStatus)
	r.DELETE("/jobs/:id", h.CancelJob)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any) (int, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func TestProcessBatchEndpoint(t *testing.T) {
	r := newTestRouter(NewBatchHandler(newTestEngine(t), nil, nil, zap.NewNop()))

	code, resp := doRequest(t, r, http.MethodPost, "/process", models.ProcessBatchRequest{
		Prompts: []string{"write a function to sort a list", "", "explain AI"},
		Model:   "gpt4",
	})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)

	var data models.ProcessBatchResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, 3, data.TotalProcessed)
	assert.Equal(t, 2, data.Successful)
	assert.Equal(t, 1, data.Failed)
	require.Len(t, data.Results, 3)
	assert.Equal(t, "item_1", data.Results[1].ID)
	assert.Contains(t, data.Results[1].ErrorMessage, "input cannot be empty")
}

func TestProcessBatchEndpointValidation(t *testing.T) {
	r := newTestRouter(NewBatchHandler(newTestEngine(t), nil, nil, zap.NewNop()))

	code, resp := doRequest(t, r, http.MethodPost, "/process", map[string]any{"prompts": []string{}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestJobLifecycleEndpoints(t *testing.T) {
	r := newTestRouter(NewBatchHandler(newTestEngine(t), nil, nil, zap.NewNop()))

	code, resp := doRequest(t, r, http.MethodPost, "/jobs", map[string]any{
		"prompts":  []string{"explain AI", "write a story"},
		"user_id":  "u1",
		"priority": 1,
	})
	require.Equal(t, http.StatusAccepted, code)

	var submitted models.SubmitJobResponse
	require.NoError(t, json.Unmarshal(resp.Data, &submitted))
	require.NotEmpty(t, submitted.JobID)
	assert.Equal(t, models.StatusQueued, submitted.Status)

	var status models.JobStatus
	require.Eventually(t, func() bool {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs/"+submitted.JobID, nil))
		if w.Code != http.StatusOK {
			return false
		}
		var resp apiResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			return false
		}
		return json.Unmarshal(resp.Data, &status) == nil && status.Status == models.StatusCompleted
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, 2, status.TotalItems)
	assert.Equal(t, 2, status.Successful)
	assert.Equal(t, "u1", status.UserID)

	// Finished jobs cannot be cancelled.
	code, _ = doRequest(t, r, http.MethodDelete, "/jobs/"+submitted.JobID, nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestJobEndpointErrors(t *testing.T) {
	r := newTestRouter(NewBatchHandler(newTestEngine(t), nil, nil, zap.NewNop()))

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		wantCode int
	}{
		{name: "unknown job", method: http.MethodGet, path: "/jobs/missing", wantCode: http.StatusNotFound},
		{name: "cancel unknown job", method: http.MethodDelete, path: "/jobs/missing", wantCode: http.StatusConflict},
		{name: "no prompts", method: http.MethodPost, path: "/jobs", body: map[string]any{}, wantCode: http.StatusBadRequest},
		{name: "bad callback", method: http.MethodPost, path: "/jobs", body: map[string]any{"prompts": []string{"a"}, "callback_url": "not a url"}, wantCode: http.StatusBadRequest},
		{name: "negative timeout", method: http.MethodPost, path: "/jobs", body: map[string]any{"prompts": []string{"a"}, "timeout_seconds": -1}, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := doRequest(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, code)
			assert.False(t, resp.Success)
		})
	}
}

func TestEnhanceEndpoint(t *testing.T) {
	r := newTestRouter(NewBatchHandler(newTestEngine(t), nil, nil, zap.NewNop()))

	code, resp := doRequest(t, r, http.MethodPost, "/enhance", models.EnhanceRequest{UserInput: "explain quantum computing"})
	require.Equal(t, http.StatusOK, code)

	var data models.EnhanceResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "Expert Explanation", data.TemplateUsed)
	assert.Equal(t, "default", data.Model)
	assert.Contains(t, data.EnhancedPrompt, "explain quantum computing")

	code, resp = doRequest(t, r, http.MethodPost, "/enhance", models.EnhanceRequest{UserInput: "hi", Template: "nope"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, resp.Error, "unknown template")
}

func TestEngineShutdownReturns503(t *testing.T) {
	engine := newTestEngine(t)
	require.NoError(t, engine.Shutdown(context.Background()))
	r := newTestRouter(NewBatchHandler(engine, nil, nil, zap.NewNop()))

	code, _ := doRequest(t, r, http.MethodPost, "/jobs", map[string]any{"prompts": []string{"a"}})
	assert.Equal(t, http.StatusServiceUnavailable, code)

	code, _ = doRequest(t, r, http.MethodPost, "/process", map[string]any{"prompts": []string{"a"}})
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestHealthAndStats(t *testing.T) {
	tests := []struct {
		name       string
		storage    *fakeStorage
		wantCode   int
		wantStatus string
	}{
		{
			name:       "healthy",
			storage:    &fakeStorage{health: map[string]string{"redis": "healthy", "supabase": "disabled"}},
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
		{
			name:       "redis down",
			storage:    &fakeStorage{health: map[string]string{"redis": "unhealthy: connection refused"}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(NewBatchHandler(newTestEngine(t), tt.storage, nil, zap.NewNop()))

			code, resp := doRequest(t, r, http.MethodGet, "/health", nil)
			assert.Equal(t, tt.wantCode, code)

			var health models.HealthCheck
			require.NoError(t, json.Unmarshal(resp.Data, &health))
			assert.Equal(t, tt.wantStatus, health.Status)
			assert.Equal(t, "healthy", health.Services["batch_engine"])
			assert.Equal(t, "disabled", health.Services["rabbitmq"])
			assert.Equal(t, 4, health.Engine.MaxWorkers)
		})
	}

	storage := &fakeStorage{cacheStats: map[string]interface{}{"cached_keys": 3}}
	r := newTestRouter(NewBatchHandler(newTestEngine(t), storage, nil, zap.NewNop()))

	code, resp := doRequest(t, r, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, code)

	var stats map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Contains(t, stats, "engine")
	assert.Contains(t, stats, "cache")
}
