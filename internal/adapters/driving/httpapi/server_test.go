package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/metrics"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *mockChatService, *mockRetrievalService, *metrics.Metrics) {
	t.Helper()
	chat := &mockChatService{}
	retrieval := &mockRetrievalService{}
	m := metrics.New()
	return New(cfg, chat, retrieval, m), chat, retrieval, m
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestChat_Answered(t *testing.T) {
	srv, chat, _, _ := newTestServer(t, Config{})
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	chat.On("Ask", mock.Anything, "How do I reset my password?").Return(&domain.ChatResponse{
		Response:  "Go to Settings and click Reset Password.",
		Sources:   []string{"account.md"},
		Timestamp: ts,
	}, nil)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/chat", `{"message":"How do I reset my password?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, "Go to Settings and click Reset Password.", body["response"])
	assert.Equal(t, []any{"account.md"}, body["sources"])
	assert.Equal(t, "2025-03-01T12:00:00Z", body["timestamp"])
	chat.AssertExpectations(t)
}

func TestChat_FallbackHasEmptySources(t *testing.T) {
	srv, chat, _, _ := newTestServer(t, Config{})
	chat.On("Ask", mock.Anything, "quantum?").Return(&domain.ChatResponse{
		Response: domain.FallbackNoContextText,
		Fallback: domain.FallbackNoContext,
	}, nil)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/chat", `{"message":"quantum?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sources":[]`)
}

func TestChat_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing message", `{}`, msgMessageRequired},
		{"empty message", `{"message":""}`, msgMessageRequired},
		{"non-string message", `{"message":42}`, msgMessageRequired},
		{"null message", `{"message":null}`, msgMessageRequired},
		{"invalid json", `{"message":`, msgInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, chat, _, _ := newTestServer(t, Config{})

			rec := do(t, srv.Handler(), http.MethodPost, "/api/chat", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, decode(t, rec)["error"])
			chat.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything)
		})
	}
}

func TestChat_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"blank after trim", domain.ErrInvalidInput, http.StatusBadRequest, msgMessageRequired},
		{"not ready", fmt.Errorf("retrieve context: %w", domain.ErrStoreNotReady), http.StatusServiceUnavailable, msgNotReady},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, msgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, chat, _, _ := newTestServer(t, Config{})
			chat.On("Ask", mock.Anything, "   ").Return(nil, tt.err)

			rec := do(t, srv.Handler(), http.MethodPost, "/api/chat", `{"message":"   "}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, decode(t, rec)["error"])
		})
	}
}

func TestChat_MethodNotAllowed(t *testing.T) {
	srv, _, _, _ := newTestServer(t, Config{})

	rec := do(t, srv.Handler(), http.MethodGet, "/api/chat", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestChat_RateLimited(t *testing.T) {
	srv, chat, _, m := newTestServer(t, Config{ChatRateLimit: 0.001, ChatBurst: 2})
	chat.On("Ask", mock.Anything, "hi").Return(&domain.ChatResponse{Response: "hello"}, nil)
	h := srv.Handler()

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodPost, "/api/chat", `{"message":"hi"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, h, http.MethodPost, "/api/chat", `{"message":"hi"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, msgTooManyRequests, decode(t, rec)["error"])
	assert.InDelta(t, 1, testutil.ToFloat64(m.RateLimitedTotal), 0)
	chat.AssertNumberOfCalls(t, "Ask", 2)
}

func TestChat_RateLimitDoesNotApplyToStats(t *testing.T) {
	srv, _, retrieval, _ := newTestServer(t, Config{ChatRateLimit: 0.001, ChatBurst: 1})
	retrieval.On("Stats", mock.Anything).Return(&domain.Stats{}, nil)
	h := srv.Handler()

	for i := 0; i < 5; i++ {
		rec := do(t, h, http.MethodGet, "/api/stats", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestStats(t *testing.T) {
	srv, _, retrieval, _ := newTestServer(t, Config{})
	retrieval.On("Stats", mock.Anything).Return(&domain.Stats{
		DocumentsProcessed: 2,
		ChunksStored:       7,
		VocabularySize:     41,
		State:              domain.StoreReady,
		Exchanges:          3,
	}, nil)

	rec := do(t, srv.Handler(), http.MethodGet, "/api/stats", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.InDelta(t, 2, body["documentsProcessed"], 0)
	assert.InDelta(t, 7, body["chunksStored"], 0)
	assert.InDelta(t, 41, body["vocabularySize"], 0)
	assert.InDelta(t, 3, body["exchanges"], 0)
	assert.Equal(t, domain.StoreReady.String(), body["state"])
}

func TestStats_Error(t *testing.T) {
	srv, _, retrieval, _ := newTestServer(t, Config{})
	retrieval.On("Stats", mock.Anything).Return(nil, errors.New("store gone"))

	rec := do(t, srv.Handler(), http.MethodGet, "/api/stats", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgInternal, decode(t, rec)["error"])
}

func TestHealth(t *testing.T) {
	for _, ready := range []bool{true, false} {
		t.Run(fmt.Sprintf("ready=%v", ready), func(t *testing.T) {
			srv, _, retrieval, _ := newTestServer(t, Config{})
			retrieval.On("Ready").Return(ready)

			rec := do(t, srv.Handler(), http.MethodGet, "/api/health", "")

			require.Equal(t, http.StatusOK, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, "healthy", body["status"])
			assert.Equal(t, ready, body["ragInitialized"])
			_, err := time.Parse(time.RFC3339Nano, body["timestamp"].(string))
			assert.NoError(t, err)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, retrieval, _ := newTestServer(t, Config{})
	retrieval.On("Ready").Return(true)
	h := srv.Handler()

	do(t, h, http.MethodGet, "/api/health", "")
	rec := do(t, h, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		`docchat_http_requests_total{method="GET",route="GET /api/health",status="200"} 1`)
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	srv, _, _, m := newTestServer(t, Config{})

	rec := do(t, srv.Handler(), http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.InDelta(t, 1,
		testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")), 0)
}

func TestNilMetrics(t *testing.T) {
	retrieval := &mockRetrievalService{}
	retrieval.On("Ready").Return(true)
	srv := New(Config{}, &mockChatService{}, retrieval, nil)
	h := srv.Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/health", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/metrics", "").Code)
}

func TestRequestID(t *testing.T) {
	srv, _, retrieval, _ := newTestServer(t, Config{})
	retrieval.On("Ready").Return(true)
	h := srv.Handler()

	t.Run("generated", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/health", "")
		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestRequestIDFrom_Empty(t *testing.T) {
	assert.Empty(t, RequestIDFrom(context.Background()))
}

func TestCORS(t *testing.T) {
	srv, _, _, _ := newTestServer(t, Config{})

	rec := do(t, srv.Handler(), http.MethodOptions, "/api/chat", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>docchat</h1>"), 0o644))

	srv, _, _, _ := newTestServer(t, Config{StaticDir: dir})

	rec := do(t, srv.Handler(), http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>docchat</h1>")
}

func TestStaticFiles_MissingDir(t *testing.T) {
	srv, _, _, _ := newTestServer(t, Config{StaticDir: filepath.Join(t.TempDir(), "absent")})

	rec := do(t, srv.Handler(), http.MethodGet, "/", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_StartStop(t *testing.T) {
	srv, _, retrieval, _ := newTestServer(t, Config{Port: 0})
	retrieval.On("Ready").Return(true)

	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	assert.NotZero(t, srv.Port())
	assert.Equal(t, fmt.Sprintf("http://localhost:%d", srv.Port()), srv.URL())

	resp, err := http.Get(srv.URL() + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Stop(context.Background()))
}

func TestServer_StopBeforeStart(t *testing.T) {
	srv, _, _, _ := newTestServer(t, Config{})
	assert.NoError(t, srv.Stop(context.Background()))
}

func TestServer_RunShutsDownOnCancel(t *testing.T) {
	srv, _, _, _ := newTestServer(t, Config{Port: 0, ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool { return srv.Port() != 0 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestServer_StartPortInUse(t *testing.T) {
	first, _, _, _ := newTestServer(t, Config{Port: 0})
	require.NoError(t, first.Start())
	t.Cleanup(func() { _ = first.Stop(context.Background()) })

	second, _, _, _ := newTestServer(t, Config{Port: first.Port()})
	err := second.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
