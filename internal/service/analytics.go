package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/store"
)

// AnimalCount is the animal-fortune breakdown of one animal.
type AnimalCount struct {
	Total   int            `json:"total"`
	ByColor map[string]int `json:"byColor"`
}

// Analytics aggregates every stored result. Maps encode with sorted keys,
// so trends and time slots come out in chronological order.
type Analytics struct {
	TotalTests            int                    `json:"totalTests"`
	TestTypeDistribution  map[string]int         `json:"testTypeDistribution"`
	MBTIDistribution      map[string]int         `json:"mbtiDistribution"`
	AnimalDistribution    map[string]AnimalCount `json:"animalDistribution"`
	AverageAge            int                    `json:"averageAge"`
	GenderDistribution    map[string]int         `json:"genderDistribution"`
	TimeOfDayDistribution map[string]int         `json:"timeOfDayDistribution"`
	MonthlyTrends         map[string]int         `json:"monthlyTrends"`
}

// AnalyticsService summarizes the stored results.
type AnalyticsService interface {
	Summarize(ctx context.Context) (Analytics, error)
}

type analyticsServiceImpl struct {
	store  store.ResultStore
	now    func() time.Time
	logger *slog.Logger
}

var _ AnalyticsService = (*analyticsServiceImpl)(nil)

// NewAnalyticsService creates an AnalyticsService. A nil clock uses time.Now.
func NewAnalyticsService(
	resultStore store.ResultStore,
	now func() time.Time,
	logger *slog.Logger,
) (AnalyticsService, error) {
	if resultStore == nil {
		return nil, dependencyError("analytics", "resultStore")
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &analyticsServiceImpl{
		store:  resultStore,
		now:    now,
		logger: logger.With(slog.String("component", "analytics_service")),
	}, nil
}

// Summarize implements AnalyticsService.
func (s *analyticsServiceImpl) Summarize(ctx context.Context) (Analytics, error) {
	results, err := s.store.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list results for analytics",
			slog.Any("error", err))
		return Analytics{}, NewServiceError("analytics", "summarize", "failed to list results", err)
	}
	return Summarize(results, s.now()), nil
}

// Summarize aggregates results as seen at asOf. Ages are asOf's year minus
// the birth year; creation times are bucketed in UTC. Profiles missing a
// field are counted in the totals but skipped in that field's breakdown.
func Summarize(results []*domain.StoredResult, asOf time.Time) Analytics {
	a := Analytics{
		TestTypeDistribution:  map[string]int{},
		MBTIDistribution:      map[string]int{},
		AnimalDistribution:    map[string]AnimalCount{},
		GenderDistribution:    map[string]int{},
		TimeOfDayDistribution: map[string]int{},
		MonthlyTrends:         map[string]int{},
	}

	var totalAge, ageCount int
	for _, r := range results {
		a.TotalTests++
		a.TestTypeDistribution[r.Type.String()]++

		fields := profileFields(r.Profile)

		switch r.Type {
		case domain.SystemMBTI:
			if t := fields.str("personalityType"); t != "" {
				a.MBTIDistribution[t]++
			}
		case domain.SystemAnimalFortune:
			if animal := fields.str("animal"); animal != "" {
				count, ok := a.AnimalDistribution[animal]
				if !ok {
					count = AnimalCount{ByColor: map[string]int{}}
				}
				count.Total++
				if color := fields.str("color"); color != "" {
					count.ByColor[color]++
				}
				a.AnimalDistribution[animal] = count
			}
		}

		if raw := fields.str("birthdate"); raw != "" {
			if birth, err := domain.ParseDate(raw); err == nil {
				totalAge += asOf.Year() - birth.Year
				ageCount++
			}
		}

		if gender := fields.str("gender"); gender != "" {
			a.GenderDistribution[gender]++
		}

		created := r.CreatedAt.UTC()
		a.TimeOfDayDistribution[created.Format("15")+":00"]++
		a.MonthlyTrends[created.Format("2006-01")]++
	}

	if ageCount > 0 {
		a.AverageAge = int(math.Round(float64(totalAge) / float64(ageCount)))
	}
	return a
}

type rawFields map[string]json.RawMessage

// profileFields decodes the top level of a profile. Anything that is not a
// JSON object yields no fields.
func profileFields(profile json.RawMessage) rawFields {
	var fields rawFields
	if err := json.Unmarshal(profile, &fields); err != nil {
		return nil
	}
	return fields
}

// str returns the named field when it is a JSON string.
func (f rawFields) str(name string) string {
	raw, ok := f[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
