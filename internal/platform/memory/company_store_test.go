package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/platform/memory"
	"github.com/phrazzld/uranai-api/internal/store"
)

func newEmployee(t *testing.T, companyID uuid.UUID, name, department string) *domain.Employee {
	t.Helper()
	e, err := domain.NewEmployee(companyID, name, domain.EmployeeDetails{Department: department})
	require.NoError(t, err)
	return e
}

func TestCompanyStore_Companies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.NewCompanyStore(nil)

	beta, err := domain.NewCompany("Beta", "owner-1")
	require.NoError(t, err)
	alpha, err := domain.NewCompany("Alpha", "owner-2")
	require.NoError(t, err)
	require.NoError(t, s.CreateCompany(ctx, beta))
	require.NoError(t, s.CreateCompany(ctx, alpha))
	assert.ErrorIs(t, s.CreateCompany(ctx, beta), store.ErrCompanyExists)
	assert.ErrorIs(t, s.CreateCompany(ctx, &domain.Company{ID: uuid.New()}), store.ErrInvalidEntity)

	got, err := s.GetCompany(ctx, beta.ID)
	require.NoError(t, err)
	assert.Equal(t, beta, got)

	_, err = s.GetCompany(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrCompanyNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)

	all, err := s.ListCompanies(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha", all[0].Name)
	assert.Equal(t, "Beta", all[1].Name)

	owned, err := s.ListCompanies(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, beta.ID, owned[0].ID)
}

func TestCompanyStore_Employees(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.NewCompanyStore(nil)

	company, err := domain.NewCompany("Acme", "")
	require.NoError(t, err)
	require.NoError(t, s.CreateCompany(ctx, company))

	hanako := newEmployee(t, company.ID, "佐藤 花子", "人事部")
	hanako.CreatedAt = company.CreatedAt.Add(time.Minute)
	taro := newEmployee(t, company.ID, "山田 太郎", "営業部")
	require.NoError(t, s.AddEmployee(ctx, taro))
	require.NoError(t, s.AddEmployee(ctx, hanako))

	touched, err := s.GetCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, hanako.CreatedAt, touched.UpdatedAt)

	orphan := newEmployee(t, uuid.New(), "誰か", "")
	assert.ErrorIs(t, s.AddEmployee(ctx, orphan), store.ErrCompanyNotFound)

	everyone, err := s.ListEmployees(ctx, company.ID, "")
	require.NoError(t, err)
	require.Len(t, everyone, 2)
	assert.Equal(t, "佐藤 花子", everyone[0].Name)

	sales, err := s.ListEmployees(ctx, company.ID, "営業部")
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, taro.ID, sales[0].ID)

	none, err := s.ListEmployees(ctx, uuid.New(), "")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCompanyStore_LinkResult(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.NewCompanyStore(nil)

	company, err := domain.NewCompany("Acme", "")
	require.NoError(t, err)
	require.NoError(t, s.CreateCompany(ctx, company))
	taro := newEmployee(t, company.ID, "山田 太郎", "")
	require.NoError(t, s.AddEmployee(ctx, taro))

	first, second := uuid.New(), uuid.New()
	require.NoError(t, s.LinkResult(ctx, company.ID, taro.ID, first))
	require.NoError(t, s.LinkResult(ctx, company.ID, taro.ID, second))
	require.NoError(t, s.LinkResult(ctx, company.ID, taro.ID, first))

	got, err := s.GetEmployee(ctx, company.ID, taro.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, got.ResultIDs)

	got.ResultIDs[0] = uuid.Nil
	again, err := s.GetEmployee(ctx, company.ID, taro.ID)
	require.NoError(t, err)
	assert.Equal(t, first, again.ResultIDs[0])

	assert.ErrorIs(t, s.LinkResult(ctx, uuid.New(), taro.ID, first), store.ErrEmployeeNotFound)
	_, err = s.GetEmployee(ctx, uuid.New(), taro.ID)
	assert.ErrorIs(t, err, store.ErrEmployeeNotFound)
}
