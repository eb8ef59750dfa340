package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/uranai-api/internal/api/shared"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/service/auth"
)

type stubTokens struct {
	owner string
	err   error
}

func (s stubTokens) GenerateToken(context.Context, string) (string, error) {
	return "token", nil
}

func (s stubTokens) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &auth.Claims{OwnerID: s.owner, ID: token}, nil
}

// ownerEcho writes the owner from the context, or "anonymous".
var ownerEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	owner, ok := shared.OwnerIDFromContext(r.Context())
	if !ok {
		owner = "anonymous"
	}
	_, _ = w.Write([]byte(owner))
})

func TestTrace(t *testing.T) {
	t.Parallel()

	var seenTrace string
	var seenLogger bool
	handler := Trace(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTrace = shared.GetTraceID(r.Context())
		seenLogger = logger.FromContext(r.Context()) != slog.Default()
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analytics", nil))

	assert.Len(t, seenTrace, 2*shared.TraceIDLength)
	assert.True(t, seenLogger)
	assert.Equal(t, seenTrace, w.Header().Get(TraceHeader))
}

func TestTrace_InboundHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		inbound string
		keep    bool
	}{
		{name: "well formed", inbound: "0123456789abcdef0123456789abcdef", keep: true},
		{name: "too short", inbound: "abc"},
		{name: "not hex", inbound: "zzzzzzzzzzzzzzzzzzzz"},
		{name: "log injection", inbound: "0123456789abcdef\nlevel=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(TraceHeader, tt.inbound)
			w := httptest.NewRecorder()

			Trace(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, req)

			got := w.Header().Get(TraceHeader)
			if tt.keep {
				assert.Equal(t, tt.inbound, got)
			} else {
				assert.NotEqual(t, tt.inbound, got)
				assert.Len(t, got, 2*shared.TraceIDLength)
			}
		})
	}
}

func TestOwnerMiddleware_Identify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		header     string
		tokens     stubTokens
		wantStatus int
		wantBody   string
	}{
		{name: "no header is anonymous", wantStatus: http.StatusOK, wantBody: "anonymous"},
		{
			name:       "valid token",
			header:     "Bearer abc",
			tokens:     stubTokens{owner: "owner-1"},
			wantStatus: http.StatusOK,
			wantBody:   "owner-1",
		},
		{
			name:       "lowercase scheme",
			header:     "bearer abc",
			tokens:     stubTokens{owner: "owner-2"},
			wantStatus: http.StatusOK,
			wantBody:   "owner-2",
		},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "missing token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{
			name:       "expired",
			header:     "Bearer abc",
			tokens:     stubTokens{err: auth.ErrExpiredToken},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Token expired",
		},
		{
			name:       "invalid",
			header:     "Bearer abc",
			tokens:     stubTokens{err: auth.ErrInvalidToken},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid token",
		},
		{
			name:       "unexpected failure",
			header:     "Bearer abc",
			tokens:     stubTokens{err: errors.New("boom")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Authentication error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/api/results", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			NewOwnerMiddleware(tt.tokens).Identify(ownerEcho).ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}
