package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompany(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"trims the name", "  株式会社うらない  ", false},
		{"blank name", "   ", true},
		{"name at the limit", strings.Repeat("社", MaxRosterNameLength), false},
		{"name over the limit", strings.Repeat("社", MaxRosterNameLength+1), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewCompany(tc.in, " owner-1 ")
			if tc.wantErr {
				assert.Nil(t, got)
				assert.ErrorIs(t, err, ErrValidation)
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "name", ve.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tc.in), got.Name)
			assert.Equal(t, "owner-1", got.OwnerID)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, got.CreatedAt, got.UpdatedAt)
		})
	}
}

func TestCompanyValidateRequiresID(t *testing.T) {
	t.Parallel()

	c := Company{Name: "Acme"}
	assert.ErrorIs(t, c.Validate(), ErrCompanyIDEmpty)
}

func TestNewEmployee(t *testing.T) {
	t.Parallel()

	companyID := uuid.New()
	e, err := NewEmployee(companyID, " 山田 太郎 ", EmployeeDetails{
		Email:      " yamada@example.com ",
		Department: "営業部",
		Position:   "課長",
	})
	require.NoError(t, err)
	assert.Equal(t, "山田 太郎", e.Name)
	assert.Equal(t, "yamada@example.com", e.Email)
	assert.Equal(t, companyID, e.CompanyID)
	assert.NotNil(t, e.ResultIDs)
	assert.Empty(t, e.ResultIDs)

	_, err = NewEmployee(companyID, "", EmployeeDetails{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewEmployee(uuid.Nil, "山田", EmployeeDetails{})
	assert.ErrorIs(t, err, ErrCompanyIDEmpty)
}

func TestEmployeeHasResult(t *testing.T) {
	t.Parallel()

	linked := uuid.New()
	e := Employee{ResultIDs: []uuid.UUID{linked}}
	assert.True(t, e.HasResult(linked))
	assert.False(t, e.HasResult(uuid.New()))
}
