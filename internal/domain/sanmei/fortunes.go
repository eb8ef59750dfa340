package sanmei

import (
	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/catalog"
	"github.com/phrazzld/uranai-api/internal/domain/cycle"
)

// Outlook classifies a fortune period relative to the day element.
type Outlook string

// Outlooks. The values are part of the stored profile.
const (
	Favorable  Outlook = "良い"
	Cautionary Outlook = "注意"
	Neutral    Outlook = "普通"
)

const (
	majorFortuneCount  = 8
	majorFortuneSpan   = 10
	annualFortuneCount = 2
	maleStartAge       = 10
	defaultStartAge    = 8
)

// MajorFortune is a decade-long fortune period.
type MajorFortune struct {
	Age         int          `json:"age"`
	Year        int          `json:"year"`
	Stem        cycle.Stem   `json:"stem"`
	Branch      cycle.Branch `json:"branch"`
	Outlook     Outlook      `json:"outlook"`
	IsCurrent   bool         `json:"isCurrent"`
	Description string       `json:"description"`
}

// AnnualFortune is the fortune of a single calendar year.
type AnnualFortune struct {
	Year          int          `json:"year"`
	Stem          cycle.Stem   `json:"stem"`
	Branch        cycle.Branch `json:"branch"`
	Compatibility Outlook      `json:"compatibility"`
	Description   string       `json:"description"`
}

func outlookOf(r cycle.Relation) Outlook {
	switch r {
	case cycle.Generative:
		return Favorable
	case cycle.Destructive:
		return Cautionary
	default:
		return Neutral
	}
}

// StartAge is the age the first major fortune begins at.
func StartAge(g domain.Gender) int {
	if g == domain.GenderMale {
		return maleStartAge
	}
	return defaultStartAge
}

// MajorFortunes projects eight decade windows from the year pillar. A
// window is favorable when the day element generates its stem element and
// cautionary when the day element destroys it.
func MajorFortunes(p cycle.Pillars, g domain.Gender, birthYear, asOfYear int) []MajorFortune {
	dayElement := p.Day.Stem.Phase()
	start := StartAge(g)

	out := make([]MajorFortune, 0, majorFortuneCount)
	for i := 0; i < majorFortuneCount; i++ {
		age := start + i*majorFortuneSpan
		year := birthYear + age
		window := cycle.Pillar{
			Stem:   cycle.StemOf(p.Year.Stem.Index() + i),
			Branch: cycle.BranchOf(p.Year.Branch.Index() + i),
		}
		stemElement := window.Stem.Phase()
		outlook := outlookOf(dayElement.RelationTo(stemElement))

		out = append(out, MajorFortune{
			Age:       age,
			Year:      year,
			Stem:      window.Stem,
			Branch:    window.Branch,
			Outlook:   outlook,
			IsCurrent: year <= asOfYear && asOfYear < year+majorFortuneSpan,
			Description: catalog.Render(majorTemplates[outlook], map[string]any{
				"Pillar":      window.String(),
				"DayElement":  dayElement.String(),
				"StemElement": stemElement.String(),
			}),
		})
	}
	return out
}

// AnnualOutlook rates a year pillar against the day element. Generation
// of either the stem or the branch element wins over destruction.
func AnnualOutlook(dayElement cycle.Phase, year cycle.Pillar) Outlook {
	stem, branch := year.Stem.Phase(), year.Branch.Phase()
	switch {
	case dayElement.Generates(stem) || dayElement.Generates(branch):
		return Favorable
	case dayElement.Destroys(stem) || dayElement.Destroys(branch):
		return Cautionary
	default:
		return Neutral
	}
}

// AnnualFortunes rates asOfYear and the following year.
func AnnualFortunes(p cycle.Pillars, asOfYear int) []AnnualFortune {
	dayElement := p.Day.Stem.Phase()

	out := make([]AnnualFortune, 0, annualFortuneCount)
	for i := 0; i < annualFortuneCount; i++ {
		year := asOfYear + i
		pillar := cycle.YearPillar(year)
		outlook := AnnualOutlook(dayElement, pillar)

		out = append(out, AnnualFortune{
			Year:          year,
			Stem:          pillar.Stem,
			Branch:        pillar.Branch,
			Compatibility: outlook,
			Description: catalog.Render(annualTemplates[outlook], map[string]any{
				"Pillar":        pillar.String(),
				"StemElement":   pillar.Stem.Phase().String(),
				"BranchElement": pillar.Branch.Phase().String(),
			}),
		})
	}
	return out
}
