package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/uranai-api/internal/api"
	"github.com/phrazzld/uranai-api/internal/api/middleware"
	"github.com/phrazzld/uranai-api/internal/config"
	"github.com/phrazzld/uranai-api/internal/domain/compare"
	"github.com/phrazzld/uranai-api/internal/events"
	"github.com/phrazzld/uranai-api/internal/generation"
	"github.com/phrazzld/uranai-api/internal/platform/memory"
	"github.com/phrazzld/uranai-api/internal/service"
	"github.com/phrazzld/uranai-api/internal/service/auth"
)

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	router http.Handler
	store  *memory.ResultStore
	tokens auth.TokenService
}

type envOptions struct {
	generator  generation.Generator
	withAuth   bool
	divination service.DivinationService
}

// newTestEnv wires the real services over an in-memory store.
func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	log := quietLogger()
	clock := func() time.Time { return fixedNow }
	memStore := memory.NewResultStore(log)

	divination := opts.divination
	if divination == nil {
		divination = service.NewDivinationService(nil, clock, log)
	}
	results, err := service.NewResultService(memStore, events.NewInMemoryEventEmitter(log), log)
	require.NoError(t, err)
	comparison, err := service.NewComparisonService(memStore, compare.NewEngine(), log)
	require.NoError(t, err)
	feedback, err := service.NewFeedbackService(memStore, opts.generator, clock, log)
	require.NoError(t, err)
	analytics, err := service.NewAnalyticsService(memStore, clock, log)
	require.NoError(t, err)
	companies, err := service.NewCompanyService(memory.NewCompanyStore(log), memStore, comparison, log)
	require.NoError(t, err)

	env := &testEnv{store: memStore}
	var owner func(http.Handler) http.Handler
	if opts.withAuth {
		env.tokens, err = auth.NewJWTService(config.AuthConfig{
			JWTSecret:            strings.Repeat("s", 32),
			Issuer:               "uranai-api",
			TokenLifetimeMinutes: 60,
		})
		require.NoError(t, err)
		owner = middleware.NewOwnerMiddleware(env.tokens).Identify
	}

	r := chi.NewRouter()
	r.Use(middleware.Trace(log))
	r.Route("/api", func(r chi.Router) {
		api.Handlers{
			Divination: api.NewDivinationHandler(divination, log),
			Results:    api.NewResultHandler(results, log),
			Compare:    api.NewCompareHandler(comparison, log),
			Feedback:   api.NewFeedbackHandler(feedback, log),
			Analytics:  api.NewAnalyticsHandler(analytics, log),
			Companies:  api.NewCompanyHandler(companies, log),
		}.Mount(r, owner)
	})
	env.router = r
	return env
}

// do sends a request with an optional JSON body and bearer token.
func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) token(t *testing.T, owner string) string {
	t.Helper()
	tok, err := e.tokens.GenerateToken(context.Background(), owner)
	require.NoError(t, err)
	return tok
}

// save stores a profile through the API and returns its ID.
func (e *testEnv) save(t *testing.T, systemType, profile, owner string) string {
	t.Helper()
	body := `{"type":"` + systemType + `","result":` + profile
	if owner != "" {
		body += `,"ownerId":"` + owner + `"`
	}
	body += "}"
	w := e.do(t, http.MethodPost, "/api/results", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp api.SaveResultResponse
	decode(t, w, &resp)
	return resp.ID.String()
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	TraceID string `json:"trace_id"`
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	decode(t, w, &body)
	return body
}
