//go:build integration

package postgres_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/platform/postgres"
	"github.com/phrazzld/uranai-api/internal/store"
)

func TestResultStoreIntegration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := postgrescontainer.Run(ctx,
		"postgres:16-alpine",
		postgrescontainer.WithDatabase("uranai"),
		postgrescontainer.WithUsername("uranai"),
		postgrescontainer.WithPassword("uranai"),
		postgrescontainer.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pg.Terminate(context.Background())
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := postgres.Open(ctx, dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateUp, nil))

	s := postgres.NewPostgresResultStore(db, nil)

	first, err := domain.NewStoredResult(domain.SystemMBTI, json.RawMessage(`{"personalityType":"INTJ"}`), "owner-1")
	require.NoError(t, err)
	second, err := domain.NewStoredResult(domain.SystemMBTI, json.RawMessage(`{"personalityType":"ENFP"}`), "owner-1")
	require.NoError(t, err)
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	require.NoError(t, s.Create(ctx, first))
	require.NoError(t, s.Create(ctx, second))
	assert.ErrorIs(t, s.Create(ctx, first), store.ErrResultExists)

	got, err := s.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SystemMBTI, got.Type)
	assert.JSONEq(t, `{"personalityType":"INTJ"}`, string(got.Profile))
	assert.Equal(t, "owner-1", got.OwnerID)

	owned, err := s.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, second.ID, owned[0].ID)

	err = store.InTx(ctx, s, func(ctx context.Context, tx store.ResultStore) error {
		return tx.Delete(ctx, first.ID)
	})
	require.NoError(t, err)

	_, err = s.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, store.ErrResultNotFound)
	assert.ErrorIs(t, s.Delete(ctx, first.ID), store.ErrResultNotFound)

	companies := postgres.NewPostgresCompanyStore(db, nil)
	company, err := domain.NewCompany("Acme", "owner-1")
	require.NoError(t, err)
	require.NoError(t, companies.CreateCompany(ctx, company))

	employee, err := domain.NewEmployee(company.ID, "山田 太郎", domain.EmployeeDetails{Department: "営業部"})
	require.NoError(t, err)
	require.NoError(t, companies.AddEmployee(ctx, employee))
	require.NoError(t, companies.LinkResult(ctx, company.ID, employee.ID, second.ID))
	require.NoError(t, companies.LinkResult(ctx, company.ID, employee.ID, second.ID))
	assert.ErrorIs(t, companies.LinkResult(ctx, company.ID, employee.ID, first.ID), store.ErrResultNotFound)

	roster, err := companies.ListEmployees(ctx, company.ID, "営業部")
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, []uuid.UUID{second.ID}, roster[0].ResultIDs)

	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateVersion, nil))
}
