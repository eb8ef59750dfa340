package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/service"
)

func result(systemType domain.SystemType, profile string, created time.Time) *domain.StoredResult {
	return &domain.StoredResult{
		ID:        uuid.New(),
		Type:      systemType,
		Profile:   json.RawMessage(profile),
		CreatedAt: created,
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	results := []*domain.StoredResult{
		result(domain.SystemMBTI, `{"personalityType":"INTJ"}`,
			time.Date(2025, 5, 3, 9, 15, 0, 0, time.UTC)),
		result(domain.SystemMBTI, `{"personalityType":"INTJ","gender":"male"}`,
			time.Date(2025, 5, 20, 21, 0, 0, 0, time.UTC)),
		result(domain.SystemAnimalFortune, `{"animal":"こあら","color":"金","birthdate":"2000-01-01","gender":"female"}`,
			time.Date(2025, 4, 1, 9, 59, 0, 0, time.UTC)),
		result(domain.SystemAnimalFortune, `{"animal":"こあら","color":"銀","birthdate":"1990-05-15"}`,
			time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)),
		result(domain.SystemNumerology, `{"birthdate":"1975-02-02","gender":"female"}`,
			time.Date(2024, 12, 31, 23, 0, 0, 0, time.FixedZone("JST", 9*3600))),
		result(domain.SystemSanmei, `{"birthdate":12345}`,
			time.Date(2025, 5, 3, 9, 0, 0, 0, time.UTC)),
	}

	got := service.Summarize(results, asOf)

	assert.Equal(t, 6, got.TotalTests)
	assert.Equal(t, map[string]int{
		"mbti": 2, "animalFortune": 2, "numerology": 1, "sanmei": 1,
	}, got.TestTypeDistribution)
	assert.Equal(t, map[string]int{"INTJ": 2}, got.MBTIDistribution)
	assert.Equal(t, map[string]service.AnimalCount{
		"こあら": {Total: 2, ByColor: map[string]int{"金": 1, "銀": 1}},
	}, got.AnimalDistribution)
	// ages 25, 35, 50
	assert.Equal(t, 37, got.AverageAge)
	assert.Equal(t, map[string]int{"male": 1, "female": 2}, got.GenderDistribution)
	assert.Equal(t, map[string]int{"09:00": 3, "21:00": 1, "10:00": 1, "14:00": 1}, got.TimeOfDayDistribution)
	assert.Equal(t, map[string]int{"2025-05": 3, "2025-04": 2, "2024-12": 1}, got.MonthlyTrends)
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	got := service.Summarize(nil, time.Now())
	assert.Zero(t, got.TotalTests)
	assert.Zero(t, got.AverageAge)
	assert.NotNil(t, got.MonthlyTrends)

	encoded, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"totalTests": 0,
		"testTypeDistribution": {},
		"mbtiDistribution": {},
		"animalDistribution": {},
		"averageAge": 0,
		"genderDistribution": {},
		"timeOfDayDistribution": {},
		"monthlyTrends": {}
	}`, string(encoded))
}

func TestAnalyticsService_Summarize(t *testing.T) {
	t.Parallel()

	memStore := newMemoryStore()
	storeMBTI(t, memStore, "ENFP", "A")
	storeNumerology(t, memStore, "Taro", "1990-05-15")

	svc, err := service.NewAnalyticsService(memStore, func() time.Time { return fixedNow }, quietLogger())
	require.NoError(t, err)

	got, err := svc.Summarize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalTests)
	assert.Equal(t, map[string]int{"ENFP": 1}, got.MBTIDistribution)
	assert.Equal(t, 35, got.AverageAge)
}

func TestAnalyticsService_StoreFailure(t *testing.T) {
	t.Parallel()

	mockStore := new(MockResultStore)
	mockStore.On("List", mock.Anything).Return(nil, errors.New("timeout"))

	svc, err := service.NewAnalyticsService(mockStore, nil, quietLogger())
	require.NoError(t, err)

	_, err = svc.Summarize(context.Background())
	var se *service.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "summarize", se.Operation)
}
