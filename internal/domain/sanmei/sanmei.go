// Package sanmei computes a sanmei (算命学) reading: the four pillars,
// three stars, elemental balance and the major and annual fortune
// projections.
//
// Fortune projections depend on the evaluation date, so Calculate takes an
// explicit asOf instead of reading the clock.
package sanmei

import (
	"time"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/catalog"
	"github.com/phrazzld/uranai-api/internal/domain/cycle"
)

// YinYang holds the polarity of each pillar's stem.
type YinYang struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
	Hour  string `json:"hour"`
}

// Compatibility lists the stars that pair well with the main star.
type Compatibility struct {
	Good []Star `json:"good"`
}

// Profile is the sanmei reading for one person.
type Profile struct {
	Name            string          `json:"name,omitempty"`
	Birthdate       domain.Date     `json:"birthdate"`
	Birthtime       string          `json:"birthtime,omitempty"`
	Gender          domain.Gender   `json:"gender,omitempty"`
	AsOf            domain.Date     `json:"asOf"`
	FourPillars     cycle.Pillars   `json:"fourPillars"`
	YinYang         YinYang         `json:"yinYang"`
	Elements        cycle.Balance   `json:"elements"`
	ElementShares   cycle.Balance   `json:"elementShares"`
	ElementTendency Tendency        `json:"elementTendency"`
	MainStar        Star            `json:"mainStar"`
	BodyStar        Star            `json:"bodyStar"`
	SpiritStar      Star            `json:"spiritStar"`
	Characteristics []string        `json:"characteristics"`
	Strengths       []string        `json:"strengths"`
	Weaknesses      []string        `json:"weaknesses"`
	LifeDirection   string          `json:"lifeDirection"`
	Compatibility   Compatibility   `json:"compatibility"`
	MajorFortunes   []MajorFortune  `json:"majorFortunes"`
	AnnualFortunes  []AnnualFortune `json:"annualFortunes"`
	Summary         string          `json:"summary"`
}

// Calculate produces the sanmei reading for rec as seen at asOf. Only the
// calendar year of asOf is used.
func Calculate(rec domain.BirthRecord, asOf time.Time) (Profile, error) {
	if err := rec.Validate(); err != nil {
		return Profile{}, err
	}

	pillars := cycle.PillarsOfRecord(rec)
	counts := pillars.Balance()
	main := MainStar(pillars.Year)
	body := BodyStar(pillars.Month)
	spirit := SpiritStar(pillars.Day)
	asOfDate := domain.DateOf(asOf)

	p := Profile{
		Name:        rec.Name,
		Birthdate:   rec.BirthDate,
		Gender:      rec.Gender,
		AsOf:        asOfDate,
		FourPillars: pillars,
		YinYang: YinYang{
			Year:  pillars.Year.Stem.YinYang(),
			Month: pillars.Month.Stem.YinYang(),
			Day:   pillars.Day.Stem.YinYang(),
			Hour:  pillars.Hour.Stem.YinYang(),
		},
		Elements:        counts,
		ElementShares:   counts.Percentages(),
		ElementTendency: ClassifyBalance(counts),
		MainStar:        main,
		BodyStar:        body,
		SpiritStar:      spirit,
		Characteristics: copyStrings(data.Characteristics[string(main)]),
		Strengths:       copyStrings(data.Strengths[string(main)]),
		Weaknesses:      copyStrings(data.Weaknesses[string(spirit)]),
		LifeDirection:   catalog.Lookup(data.Directions, string(main), data.DirectionFallback),
		Compatibility:   Compatibility{Good: compatibleStars(main)},
		MajorFortunes:   MajorFortunes(pillars, rec.Gender, rec.BirthDate.Year, asOfDate.Year),
		AnnualFortunes:  AnnualFortunes(pillars, asOfDate.Year),
	}
	if rec.BirthTime != nil {
		p.Birthtime = rec.BirthTime.String()
	}
	p.Summary = summarize(main, body, spirit, counts)

	return p, nil
}

func summarize(main, body, spirit Star, counts cycle.Balance) string {
	text, ok := data.Summaries[string(main)]
	if !ok {
		return data.SummaryFallback
	}
	return catalog.Render(summaryTemplate, map[string]any{
		"Opening":           text.Opening,
		"Closing":           text.Closing,
		"BodyStar":          string(body),
		"BodyDescription":   catalog.Lookup(data.BodyStars, string(body), data.BodyStarFallback),
		"SpiritStar":        string(spirit),
		"SpiritDescription": catalog.Lookup(data.SpiritStars, string(spirit), data.SpiritStarFallback),
		"ElementAnalysis":   AnalyzeElements(counts),
	})
}

func compatibleStars(main Star) []Star {
	names := data.Compatibility[string(main)]
	out := make([]Star, len(names))
	for i, n := range names {
		out[i] = Star(n)
	}
	return out
}

func copyStrings(items []string) []string {
	return append([]string{}, items...)
}
