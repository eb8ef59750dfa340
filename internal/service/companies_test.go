package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/compare"
	"github.com/phrazzld/uranai-api/internal/platform/memory"
	"github.com/phrazzld/uranai-api/internal/service"
	"github.com/phrazzld/uranai-api/internal/store"
)

type rosterFixture struct {
	svc     service.CompanyService
	results *memory.ResultStore
}

func newRosterFixture(t *testing.T) rosterFixture {
	t.Helper()
	results := newMemoryStore()
	comparison := newComparisonService(t, results)
	svc, err := service.NewCompanyService(memory.NewCompanyStore(quietLogger()), results, comparison, quietLogger())
	require.NoError(t, err)
	return rosterFixture{svc: svc, results: results}
}

func (f rosterFixture) company(t *testing.T, owner string) *domain.Company {
	t.Helper()
	c, err := f.svc.CreateCompany(context.Background(), service.CreateCompanyInput{Name: "Acme", OwnerID: owner})
	require.NoError(t, err)
	return c
}

// storeAt saves a profile with a fixed creation time.
func storeAt(t *testing.T, s store.ResultStore, systemType domain.SystemType, profile string, owner string, at time.Time) *domain.StoredResult {
	t.Helper()
	r, err := domain.NewStoredResult(systemType, json.RawMessage(profile), owner)
	require.NoError(t, err)
	r.CreatedAt = at
	require.NoError(t, s.Create(context.Background(), r))
	return r
}

func TestNewCompanyService_ValidatesDependencies(t *testing.T) {
	t.Parallel()

	results := newMemoryStore()
	comparison := newComparisonService(t, results)
	companies := memory.NewCompanyStore(nil)

	tests := []struct {
		name       string
		companies  store.CompanyStore
		results    store.ResultStore
		comparison service.ComparisonService
	}{
		{"nil company store", nil, results, comparison},
		{"nil result store", companies, nil, comparison},
		{"nil comparison", companies, results, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, err := service.NewCompanyService(tt.companies, tt.results, tt.comparison, nil)
			assert.Nil(t, svc)
			var serviceErr *service.ServiceError
			assert.ErrorAs(t, err, &serviceErr)
		})
	}
}

func TestCompanyService_Companies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRosterFixture(t)

	_, err := f.svc.CreateCompany(ctx, service.CreateCompanyInput{Name: "  "})
	assert.True(t, domain.IsValidationError(err))

	owned := f.company(t, "owner-1")
	f.company(t, "owner-2")

	got, err := f.svc.GetCompany(ctx, owned.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", got.OwnerID)

	_, err = f.svc.GetCompany(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrCompanyNotFound)

	list, err := f.svc.ListCompanies(ctx, " owner-1 ")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, owned.ID, list[0].ID)
}

func TestCompanyService_AddEmployee(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("links the given results once", func(t *testing.T) {
		t.Parallel()
		f := newRosterFixture(t)
		c := f.company(t, "owner-1")
		r := storeAt(t, f.results, domain.SystemMBTI, `{"personalityType":"INTJ"}`, "owner-1", now)

		e, err := f.svc.AddEmployee(ctx, service.AddEmployeeInput{
			CompanyID:  c.ID,
			Name:       "山田 太郎",
			Department: "営業部",
			ResultIDs:  []uuid.UUID{r.ID, r.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{r.ID}, e.ResultIDs)

		roster, err := f.svc.ListEmployees(ctx, c.ID, "営業部")
		require.NoError(t, err)
		require.Len(t, roster, 1)
		assert.Equal(t, []uuid.UUID{r.ID}, roster[0].ResultIDs)
	})

	tests := []struct {
		name   string
		setup  func(t *testing.T, f rosterFixture) service.AddEmployeeInput
		target error
	}{
		{
			name: "unknown company",
			setup: func(t *testing.T, _ rosterFixture) service.AddEmployeeInput {
				return service.AddEmployeeInput{CompanyID: uuid.New(), Name: "山田"}
			},
			target: service.ErrCompanyNotFound,
		},
		{
			name: "unknown result",
			setup: func(t *testing.T, f rosterFixture) service.AddEmployeeInput {
				c := f.company(t, "")
				return service.AddEmployeeInput{CompanyID: c.ID, Name: "山田", ResultIDs: []uuid.UUID{uuid.New()}}
			},
			target: service.ErrResultNotFound,
		},
		{
			name: "result of another owner",
			setup: func(t *testing.T, f rosterFixture) service.AddEmployeeInput {
				c := f.company(t, "owner-1")
				r := storeAt(t, f.results, domain.SystemMBTI, `{"personalityType":"INTJ"}`, "owner-2", now)
				return service.AddEmployeeInput{CompanyID: c.ID, Name: "山田", ResultIDs: []uuid.UUID{r.ID}}
			},
			target: domain.ErrUnauthorized,
		},
		{
			name: "blank name",
			setup: func(t *testing.T, f rosterFixture) service.AddEmployeeInput {
				return service.AddEmployeeInput{CompanyID: f.company(t, "").ID, Name: " "}
			},
			target: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newRosterFixture(t)
			in := tt.setup(t, f)

			_, err := f.svc.AddEmployee(ctx, in)
			assert.ErrorIs(t, err, tt.target)

			if in.CompanyID != uuid.Nil && !errors.Is(err, service.ErrCompanyNotFound) {
				roster, err := f.svc.ListEmployees(ctx, in.CompanyID, "")
				require.NoError(t, err)
				assert.Empty(t, roster)
			}
		})
	}
}

func TestCompanyService_LinkResult(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRosterFixture(t)
	c := f.company(t, "")
	e, err := f.svc.AddEmployee(ctx, service.AddEmployeeInput{CompanyID: c.ID, Name: "山田"})
	require.NoError(t, err)
	r := storeMBTI(t, f.results, "INTJ", "山田")

	got, err := f.svc.LinkResult(ctx, c.ID, e.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{r.ID}, got.ResultIDs)

	_, err = f.svc.LinkResult(ctx, c.ID, uuid.New(), r.ID)
	assert.ErrorIs(t, err, service.ErrEmployeeNotFound)

	_, err = f.svc.LinkResult(ctx, c.ID, e.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrResultNotFound)

	_, err = f.svc.LinkResult(ctx, uuid.New(), e.ID, r.ID)
	assert.ErrorIs(t, err, service.ErrCompanyNotFound)
}

func TestCompanyService_CompareTeam(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	f := newRosterFixture(t)
	c := f.company(t, "")

	older := storeAt(t, f.results, domain.SystemMBTI, `{"name":"old","personalityType":"ISTJ"}`, "", base)
	newer := storeAt(t, f.results, domain.SystemMBTI, `{"name":"new","personalityType":"ENFP"}`, "", base.Add(time.Hour))
	entp := storeAt(t, f.results, domain.SystemMBTI, `{"personalityType":"ENTP"}`, "", base)
	numbers := storeAt(t, f.results, domain.SystemNumerology, `{"name":"N","destinyNumber":3}`, "", base)
	gone := storeAt(t, f.results, domain.SystemMBTI, `{"personalityType":"INFJ"}`, "", base.Add(2*time.Hour))

	add := func(name, department string, ids ...uuid.UUID) {
		_, err := f.svc.AddEmployee(ctx, service.AddEmployeeInput{
			CompanyID: c.ID, Name: name, Department: department, ResultIDs: ids,
		})
		require.NoError(t, err)
	}
	add("Aki", "開発部", newer.ID, older.ID, gone.ID)
	add("Ben", "開発部", entp.ID)
	add("Cho", "開発部", numbers.ID)
	add("Dai", "営業部", entp.ID)
	require.NoError(t, f.results.Delete(ctx, gone.ID))

	got, err := f.svc.CompareTeam(ctx, service.TeamCompareInput{CompanyID: c.ID, Type: "mbti", Department: "開発部"})
	require.NoError(t, err)
	assert.Equal(t, domain.SystemMBTI, got.Type)
	require.Len(t, got.Users, 2)
	assert.Equal(t, "Aki", got.Users[0].(compare.MBTIUser).Name)
	assert.Equal(t, "ENFP", got.Users[0].(compare.MBTIUser).PersonalityType)
	assert.Equal(t, "Ben", got.Users[1].(compare.MBTIUser).Name)
	require.Len(t, got.Compatibility, 1)

	tests := []struct {
		name   string
		in     service.TeamCompareInput
		target error
	}{
		{"missing type", service.TeamCompareInput{CompanyID: c.ID}, domain.ErrValidation},
		{"unknown type", service.TeamCompareInput{CompanyID: c.ID, Type: "tarot"}, domain.ErrUnsupportedSystem},
		{"too few members", service.TeamCompareInput{CompanyID: c.ID, Type: "numerology"}, domain.ErrInsufficientResults},
		{"empty department", service.TeamCompareInput{CompanyID: c.ID, Type: "mbti", Department: "総務部"}, domain.ErrInsufficientResults},
		{"unknown company", service.TeamCompareInput{CompanyID: uuid.New(), Type: "mbti"}, service.ErrCompanyNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := f.svc.CompareTeam(ctx, tt.in)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestNewServiceError_MapsRosterNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"company", store.ErrCompanyNotFound, service.ErrCompanyNotFound},
		{"employee", store.ErrEmployeeNotFound, service.ErrEmployeeNotFound},
		{"result", store.ErrResultNotFound, service.ErrResultNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, service.NewServiceError("companies", "op", "msg", tt.err))
		})
	}
}
