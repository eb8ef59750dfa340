package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/animal"
	"github.com/phrazzld/uranai-api/internal/domain/fourpillars"
	"github.com/phrazzld/uranai-api/internal/domain/mbti"
	"github.com/phrazzld/uranai-api/internal/domain/numerology"
	"github.com/phrazzld/uranai-api/internal/domain/sanmei"
	"github.com/phrazzld/uranai-api/internal/observability"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
)

// DivinationInput carries the raw request fields for every calculator.
// Each system reads only the fields it needs.
type DivinationInput struct {
	Name            string
	Birthdate       string
	Birthtime       string
	Gender          string
	PersonalityType string

	// AsOf pins the evaluation instant of time-dependent projections.
	// The zero value means the service clock.
	AsOf time.Time
}

// DivinationService runs the calculators on raw input.
type DivinationService interface {
	// Calculate validates in for system and returns that system's profile.
	Calculate(ctx context.Context, system domain.SystemType, in DivinationInput) (any, error)
}

type divinationServiceImpl struct {
	animal *animal.Calculator
	now    func() time.Time
	logger *slog.Logger
}

var _ DivinationService = (*divinationServiceImpl)(nil)

// NewDivinationService creates a DivinationService. A nil calculator uses
// the deterministic default, a nil clock uses time.Now.
func NewDivinationService(
	animalCalc *animal.Calculator,
	now func() time.Time,
	logger *slog.Logger,
) DivinationService {
	if animalCalc == nil {
		animalCalc = animal.NewCalculator()
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &divinationServiceImpl{
		animal: animalCalc,
		now:    now,
		logger: logger.With(slog.String("component", "divination_service")),
	}
}

// Calculate implements DivinationService.
func (s *divinationServiceImpl) Calculate(
	ctx context.Context,
	system domain.SystemType,
	in DivinationInput,
) (any, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile, err := s.calculate(system, in)
	observability.RecordCalculation(system.String(), err)
	if err != nil {
		if isInputError(err) {
			log.Debug("divination input rejected",
				slog.String("system", system.String()),
				slog.String("error", err.Error()))
			return nil, err
		}
		log.Error("divination calculation failed",
			slog.String("system", system.String()),
			slog.Any("error", err))
		return nil, NewServiceError("divination", "calculate", "calculation failed", err)
	}

	log.Debug("divination calculated", slog.String("system", system.String()))
	return profile, nil
}

func (s *divinationServiceImpl) calculate(system domain.SystemType, in DivinationInput) (any, error) {
	switch system {
	case domain.SystemNumerology:
		date, err := domain.ParseDate(in.Birthdate)
		if err != nil {
			return nil, err
		}
		return numerology.Calculate(in.Name, date)

	case domain.SystemFourPillars:
		rec, err := birthRecord(in, true, true)
		if err != nil {
			return nil, err
		}
		return fourpillars.Calculate(rec)

	case domain.SystemSanmei:
		rec, err := birthRecord(in, false, true)
		if err != nil {
			return nil, err
		}
		asOf := in.AsOf
		if asOf.IsZero() {
			asOf = s.now()
		}
		return sanmei.Calculate(rec, asOf)

	case domain.SystemAnimalFortune:
		rec, err := birthRecord(in, false, false)
		if err != nil {
			return nil, err
		}
		p, err := s.animal.Calculate(rec.BirthDate, rec.Gender)
		if err != nil {
			return nil, err
		}
		p.Name = rec.Name
		return p, nil

	case domain.SystemMBTI:
		if strings.TrimSpace(in.PersonalityType) == "" {
			return nil, domain.NewValidationError("personalityType", "is required", domain.ErrValidation)
		}
		return mbti.Calculate(in.PersonalityType, strings.TrimSpace(in.Name))

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedSystem, system)
	}
}

// birthRecord parses the shared birth fields. Birth time and gender are
// optional unless the system requires them.
func birthRecord(in DivinationInput, needTime, needGender bool) (domain.BirthRecord, error) {
	date, err := domain.ParseDate(in.Birthdate)
	if err != nil {
		return domain.BirthRecord{}, err
	}

	rec := domain.BirthRecord{
		Name:      strings.TrimSpace(in.Name),
		BirthDate: date,
	}

	if strings.TrimSpace(in.Birthtime) != "" || needTime {
		tod, err := domain.ParseTimeOfDay(in.Birthtime)
		if err != nil {
			return domain.BirthRecord{}, err
		}
		rec.BirthTime = &tod
	}

	gender, err := domain.ParseGender(in.Gender)
	if err != nil {
		return domain.BirthRecord{}, err
	}
	if needGender && gender == "" {
		return domain.BirthRecord{}, domain.NewValidationError("gender", "is required", domain.ErrValidation)
	}
	rec.Gender = gender

	return rec, rec.Validate()
}
