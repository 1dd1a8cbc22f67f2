package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namecraft/backend/internal/ai"
	"namecraft/backend/internal/metrics"
	"namecraft/backend/internal/naming"
	"namecraft/backend/internal/store"
)

type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, req.Prompt)
	return f.reply, f.err
}

func (f *fakeCompleter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// failingStore accepts reads but rejects every write.
type failingStore struct {
	store.HistoryStore
}

func (failingStore) SaveHistory(context.Context, *store.HistoryRecord) error {
	return errors.New("disk full")
}

func (failingStore) Ping(context.Context) error {
	return errors.New("offline")
}

type testEnv struct {
	router    *gin.Engine
	server    *Server
	store     store.HistoryStore
	completer *fakeCompleter
	registry  *prometheus.Registry
	recorder  *metrics.Recorder
}

func init() {
	gin.SetMode(gin.TestMode)
	logrus.SetOutput(io.Discard)
}

func newTestEnv(t *testing.T, reply string, wrap func(store.HistoryStore) store.HistoryStore) *testEnv {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "history.db"), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var hs store.HistoryStore = db
	if wrap != nil {
		hs = wrap(db)
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.New(registry)
	require.NoError(t, err)

	completer := &fakeCompleter{reply: reply}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	generator := naming.NewGenerator(completer, naming.Options{Logger: quiet, Observer: recorder})

	server, err := NewServer(Config{
		Generator: generator,
		Store:     hs,
		Observer:  recorder,
		Gatherer:  registry,
	})
	require.NoError(t, err)
	router, err := server.Router()
	require.NoError(t, err)

	return &testEnv{router: router, server: server, store: hs, completer: completer, registry: registry, recorder: recorder}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch v := body.(type) {
		case string:
			reader = strings.NewReader(v)
		default:
			payload, err := json.Marshal(v)
			require.NoError(t, err)
			reader = bytes.NewReader(payload)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func TestNewServerRequiresDependencies(t *testing.T) {
	_, err := NewServer(Config{})
	assert.Error(t, err)
	_, err = NewServer(Config{Generator: naming.NewGenerator(nil, naming.Options{})})
	assert.Error(t, err)
}

func TestRootMessage(t *testing.T) {
	env := newTestEnv(t, `[]`, nil)
	w := env.do(t, http.MethodGet, "/api/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "NamaCraft API - modern name generator for apps and SaaS", decode[map[string]string](t, w)["message"])
}

func TestGenerateNamesRejectsEmptyDescription(t *testing.T) {
	env := newTestEnv(t, `["Nova"]`, nil)

	for _, body := range []any{
		map[string]any{"description": ""},
		map[string]any{"description": "   \t "},
		map[string]any{},
	} {
		w := env.do(t, http.MethodPost, "/api/generate-names", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, ErrEmptyDescription.Error(), decode[map[string]string](t, w)["error"])
	}

	assert.Equal(t, 0, env.completer.Calls(), "no ai call expected")
	records, err := env.store.RecentHistory(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records, "no history write expected")
}

func TestGenerateNamesValidation(t *testing.T) {
	env := newTestEnv(t, `["Nova"]`, nil)

	cases := []any{
		map[string]any{"description": "x", "count": 0},
		map[string]any{"description": "x", "count": 21},
		map[string]any{"description": "x", "count": "many"},
		map[string]any{"description": strings.Repeat("a", 1001)},
		"{not json",
	}
	for _, body := range cases {
		w := env.do(t, http.MethodPost, "/api/generate-names", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %v", body)
	}
	assert.Equal(t, 0, env.completer.Calls())
}

func TestGenerateNamesRoundTripsThroughHistory(t *testing.T) {
	env := newTestEnv(t, `["clarq","Clarq","SAGE","ryze"]`, nil)

	w := env.do(t, http.MethodPost, "/api/generate-names", map[string]any{
		"description": "  a calm journaling app ",
		"industry":    "productivity",
		"count":       5,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[GenerateNamesResponse](t, w)
	assert.Equal(t, []string{"Clarq", "Sage", "Ryze"}, resp.Names)
	assert.Equal(t, 3, resp.GeneratedCount)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	w = env.do(t, http.MethodGet, "/api/generation-history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[[]HistoryDTO](t, w)
	require.Len(t, history, 1)
	assert.Equal(t, resp.Names, history[0].GeneratedNames)
	assert.Equal(t, "  a calm journaling app ", history[0].Description, "description stored as sent")
	require.Len(t, env.completer.prompts, 1)
	assert.Equal(t, naming.BuildPrompt("  a calm journaling app ", "productivity", "", 5), env.completer.prompts[0])
	require.NotNil(t, history[0].Industry)
	assert.Equal(t, "productivity", *history[0].Industry)
	assert.Nil(t, history[0].Style)
	assert.NotEmpty(t, history[0].ID)
}

func TestGenerateNamesDefaultCountWithFallback(t *testing.T) {
	env := newTestEnv(t, "", nil)
	env.completer.err = errors.New("upstream down")

	w := env.do(t, http.MethodPost, "/api/generate-names", map[string]any{"description": "budget tracker"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[GenerateNamesResponse](t, w)
	assert.Len(t, resp.Names, naming.DefaultCount)
	assert.Equal(t, naming.DefaultCount, resp.GeneratedCount)
}

func TestGenerateNamesSurvivesHistoryFailure(t *testing.T) {
	env := newTestEnv(t, `["Nova","Luma"]`, func(inner store.HistoryStore) store.HistoryStore {
		return failingStore{HistoryStore: inner}
	})

	w := env.do(t, http.MethodPost, "/api/generate-names", map[string]any{"description": "x", "count": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Nova", "Luma"}, decode[GenerateNamesResponse](t, w).Names)
	assert.Nil(t, env.server.Notifier().Last(), "failed writes are not broadcast")

	body := env.do(t, http.MethodGet, "/metrics", nil).Body.String()
	assert.Contains(t, body, `namecraft_history_writes_total{outcome="error"} 1`)
}

func TestGenerateNamesNotHeldUpByStalledSubscriber(t *testing.T) {
	env := newTestEnv(t, `["Nova"]`, nil)
	stalled := newStalledConn()
	sub := env.server.Notifier().Register(stalled)
	t.Cleanup(func() { env.server.Notifier().Unregister(sub) })

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < subscriberBuffer*2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := env.do(t, http.MethodPost, "/api/generate-names", map[string]any{"description": "x", "count": 1})
			assert.Equal(t, http.StatusOK, w.Code)
		}()
	}
	wg.Wait()
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 0, env.server.Notifier().Clients())
}

func TestHistoryLimit(t *testing.T) {
	env := newTestEnv(t, `[]`, nil)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		record := store.NewHistoryRecord("desc", "", "", []string{"Nova"})
		record.Timestamp = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, env.store.SaveHistory(ctx, record))
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 10},
		{"?limit=3", 3},
		{"?limit=0", 1},
		{"?limit=500", 12},
	}
	for _, tc := range tests {
		w := env.do(t, http.MethodGet, "/api/generation-history"+tc.query, nil)
		require.Equal(t, http.StatusOK, w.Code)
		history := decode[[]HistoryDTO](t, w)
		require.Len(t, history, tc.want, tc.query)
		assert.True(t, history[0].Timestamp.Equal(base.Add(11*time.Second)), "newest first for %q", tc.query)
	}

	w := env.do(t, http.MethodGet, "/api/generation-history?limit=ten", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseHistoryLimit(t *testing.T) {
	cases := map[string]int{"": 10, " 7 ": 7, "-5": 1, "101": 100}
	for raw, want := range cases {
		got, err := parseHistoryLimit(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got, raw)
	}
	_, err := parseHistoryLimit("1.5")
	assert.Error(t, err)
}

func TestStatusChecks(t *testing.T) {
	env := newTestEnv(t, `[]`, nil)

	w := env.do(t, http.MethodPost, "/api/status", map[string]string{"client_name": "web"})
	require.Equal(t, http.StatusOK, w.Code)
	created := decode[StatusCheckDTO](t, w)
	assert.Equal(t, "web", created.ClientName)
	assert.NotEmpty(t, created.ID)

	w = env.do(t, http.MethodPost, "/api/status", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]StatusCheckDTO](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, `[]`, nil)
	w := env.do(t, http.MethodGet, "/api/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])

	broken := newTestEnv(t, `[]`, func(inner store.HistoryStore) store.HistoryStore {
		return failingStore{HistoryStore: inner}
	})
	w = broken.do(t, http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestIDEchoedOrMinted(t *testing.T) {
	env := newTestEnv(t, `[]`, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/", nil)
	req.Header.Set(requestIDHeader, "abc-123_XYZ")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123_XYZ", w.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/api/", nil)
	req.Header.Set(requestIDHeader, "bad id!")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	got := w.Header().Get(requestIDHeader)
	assert.NotEqual(t, "bad id!", got)
	assert.Len(t, got, 36)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, `["Nova"]`, nil)
	env.do(t, http.MethodPost, "/api/generate-names", map[string]any{"description": "x", "count": 1})

	w := env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `namecraft_generations_total{source="ai"} 1`)
	assert.Contains(t, body, `namecraft_ai_calls_total{outcome="ok"} 1`)
	assert.Contains(t, body, `namecraft_history_writes_total{outcome="ok"} 1`)
}

func TestHistoryStreamReplaysLastRecord(t *testing.T) {
	env := newTestEnv(t, `["Nova","Luma"]`, nil)
	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/api/generate-names", "application/json", strings.NewReader(`{"description":"x","count":2}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/generation-history/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var event HistoryEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "history", event.Type)
	require.NotNil(t, event.Record)
	assert.Equal(t, []string{"Nova", "Luma"}, event.Record.GeneratedNames)
	assert.False(t, event.Timestamp.IsZero())
}
