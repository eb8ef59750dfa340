package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Result-specific validation errors
var (
	// ErrResultIDEmpty is returned when a stored result has a nil ID.
	ErrResultIDEmpty = errors.New("result ID cannot be empty")

	// ErrResultProfileEmpty is returned when a stored result has no profile.
	ErrResultProfileEmpty = errors.New("result profile cannot be empty")

	// ErrResultProfileInvalid is returned when the profile is not a JSON object.
	ErrResultProfileInvalid = errors.New("result profile must be a JSON object")
)

// StoredResult is a persisted profile. The profile is kept as raw JSON so
// that every system's variant can be stored in one table and decoded on
// demand by the comparison engine.
type StoredResult struct {
	ID        uuid.UUID       `json:"id"`
	Type      SystemType      `json:"type"`
	Profile   json.RawMessage `json:"result"`
	OwnerID   string          `json:"ownerId,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewStoredResult creates a StoredResult with a fresh ID and creation time.
// Returns an error if validation fails.
func NewStoredResult(systemType SystemType, profile json.RawMessage, ownerID string) (*StoredResult, error) {
	result := &StoredResult{
		ID:        uuid.New(),
		Type:      systemType,
		Profile:   profile,
		OwnerID:   strings.TrimSpace(ownerID),
		CreatedAt: time.Now().UTC(),
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}

	return result, nil
}

// Validate checks the invariants of a stored result.
func (r *StoredResult) Validate() error {
	if r.ID == uuid.Nil {
		return ErrResultIDEmpty
	}

	if !r.Type.Valid() {
		return NewValidationError("type", "is not a supported system", ErrUnsupportedSystem)
	}

	if len(r.Profile) == 0 {
		return ErrResultProfileEmpty
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(r.Profile, &obj); err != nil {
		return ErrResultProfileInvalid
	}

	return nil
}

// DecodeProfile unmarshals the stored profile into v.
func (r *StoredResult) DecodeProfile(v any) error {
	if err := json.Unmarshal(r.Profile, v); err != nil {
		return NewValidationError("result", "cannot be decoded as "+r.Type.String(), ErrInvalidFormat)
	}
	return nil
}
