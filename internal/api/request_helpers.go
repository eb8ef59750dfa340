package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/uranai-api/internal/api/shared"
	"github.com/phrazzld/uranai-api/internal/domain"
)

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// decodeAndValidate decodes the JSON body into req and validates it.
// Decoding failures are reported as validation errors on the body.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) error {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		return domain.NewValidationError("body", "is not valid JSON", err)
	}
	if err := shared.ValidateRequest(req); err != nil {
		return SanitizeValidationError(err)
	}
	return nil
}

// resolveOwner picks the owner for a request. An authenticated owner may
// not act for someone else; without a token the explicit owner is used.
func resolveOwner(ctx context.Context, explicit string) (string, error) {
	explicit = strings.TrimSpace(explicit)
	authenticated, ok := shared.OwnerIDFromContext(ctx)
	if !ok {
		return explicit, nil
	}
	if explicit != "" && explicit != authenticated {
		return "", domain.ErrUnauthorized
	}
	return authenticated, nil
}

// authorizeResult rejects access to a result owned by someone other than
// the authenticated owner. Anonymous requests and ownerless results pass.
func authorizeResult(ctx context.Context, r *domain.StoredResult) error {
	authenticated, ok := shared.OwnerIDFromContext(ctx)
	if !ok || r.OwnerID == "" || r.OwnerID == authenticated {
		return nil
	}
	return domain.ErrUnauthorized
}
