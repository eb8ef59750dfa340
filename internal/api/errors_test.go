package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/uranai-api/internal/api/shared"
	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/service"
	"github.com/phrazzld/uranai-api/internal/service/auth"
	"github.com/phrazzld/uranai-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "expired token", err: auth.ErrExpiredToken, want: http.StatusUnauthorized},
		{name: "foreign owner", err: domain.ErrUnauthorized, want: http.StatusForbidden},
		{name: "service not found", err: service.ErrResultNotFound, want: http.StatusNotFound},
		{name: "named not found", err: &service.ResultNotFoundError{ID: "x"}, want: http.StatusNotFound},
		{name: "store not found", err: fmt.Errorf("get: %w", store.ErrResultNotFound), want: http.StatusNotFound},
		{name: "duplicate", err: store.ErrResultExists, want: http.StatusConflict},
		{
			name: "validation",
			err:  domain.NewValidationError("birthdate", "is required", domain.ErrValidation),
			want: http.StatusBadRequest,
		},
		{name: "type mismatch", err: domain.ErrTypeMismatch, want: http.StatusBadRequest},
		{name: "too few results", err: domain.ErrInsufficientResults, want: http.StatusBadRequest},
		{name: "owner required", err: service.ErrOwnerRequired, want: http.StatusBadRequest},
		{name: "unsupported system", err: domain.ErrUnsupportedSystem, want: http.StatusBadRequest},
		{
			name: "service failure",
			err:  &service.ServiceError{Service: "results", Operation: "save_result", Err: errors.New("x")},
			want: http.StatusInternalServerError,
		},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage_NeverLeaksDetails(t *testing.T) {
	t.Parallel()

	errs := []error{
		errors.New("pq: password authentication failed for user admin"),
		fmt.Errorf("query SELECT * FROM results: %w", errors.New("connection refused")),
		&service.ServiceError{Service: "feedback", Operation: "generate", Err: errors.New("api key AIza123")},
	}
	for _, err := range errs {
		msg := GetSafeErrorMessage(err)
		assert.Equal(t, msgUnexpected, msg)
	}

	assert.Equal(t, "結果ID abc が見つかりません", GetSafeErrorMessage(&service.ResultNotFoundError{ID: "abc"}))
	assert.Equal(t, msgUnexpected, GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(&FourPillarsRequest{Birthdate: "1990-05-15", Gender: "male"})
	require.Error(t, err)

	sanitized := SanitizeValidationError(err)
	var ve *domain.ValidationError
	require.ErrorAs(t, sanitized, &ve)
	assert.Equal(t, "birthtime", ve.Field)
	assert.Equal(t, "is required", ve.Message)
	assert.ErrorIs(t, sanitized, domain.ErrValidation)

	plain := errors.New("plain")
	assert.Same(t, plain, SanitizeValidationError(plain))
}
