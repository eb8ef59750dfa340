// Package fourpillars computes a four-pillars (四柱推命) reading: the year,
// month, day and hour pillars, the elemental balance of their eight slots
// and the trait texts keyed by the dominant and weakest phases.
package fourpillars

import (
	"embed"
	"strings"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/catalog"
	"github.com/phrazzld/uranai-api/internal/domain/cycle"
)

//go:embed data.yaml
var dataFS embed.FS

type tables struct {
	Characteristics   map[string][]string `yaml:"characteristics"`
	Strengths         map[string][]string `yaml:"strengths"`
	Weaknesses        map[string][]string `yaml:"weaknesses"`
	Directions        map[string]string   `yaml:"directions"`
	DirectionFallback string              `yaml:"directionFallback"`
	Compatibility     map[string][]string `yaml:"compatibility"`
	Summaries         map[string]string   `yaml:"summaries"`
	SummaryFallback   string              `yaml:"summaryFallback"`
}

var data = catalog.MustLoad[tables](dataFS, "data.yaml")

// PillarView is a pillar as presented in a reading. Element is the phase
// of the pillar's stem.
type PillarView struct {
	HeavenlyStem  cycle.Stem   `json:"heavenlyStem"`
	EarthlyBranch cycle.Branch `json:"earthlyBranch"`
	Element       cycle.Phase  `json:"element"`
}

// Profile is the four-pillars reading for one person.
type Profile struct {
	Name            string        `json:"name,omitempty"`
	Birthdate       domain.Date   `json:"birthdate"`
	Birthtime       string        `json:"birthtime,omitempty"`
	Gender          domain.Gender `json:"gender,omitempty"`
	Pillars         []PillarView  `json:"pillars"`
	Elements        cycle.Balance `json:"elements"`
	DominantElement cycle.Phase   `json:"dominantElement"`
	WeakestElement  cycle.Phase   `json:"weakestElement"`
	Characteristics []string      `json:"characteristics"`
	Strengths       []string      `json:"strengths"`
	Weaknesses      []string      `json:"weaknesses"`
	LifeDirection   string        `json:"lifeDirection"`
	Compatibility   []string      `json:"compatibility"`
	Summary         string        `json:"summary"`
}

// Calculate produces the four-pillars reading for rec. Without a birth
// time the hour pillar is taken at noon.
func Calculate(rec domain.BirthRecord) (Profile, error) {
	if err := rec.Validate(); err != nil {
		return Profile{}, err
	}

	pillars := cycle.PillarsOfRecord(rec)
	elements := pillars.Balance().Percentages()
	dominant := elements.Dominant()
	weakest := elements.Weakest()

	p := Profile{
		Name:            strings.TrimSpace(rec.Name),
		Birthdate:       rec.BirthDate,
		Gender:          rec.Gender,
		Pillars:         views(pillars),
		Elements:        elements,
		DominantElement: dominant,
		WeakestElement:  weakest,
		Characteristics: clone(data.Characteristics[dominant.String()]),
		Strengths:       clone(data.Strengths[dominant.String()]),
		Weaknesses:      clone(data.Weaknesses[weakest.String()]),
		LifeDirection:   LifeDirection(pillars.Day.Stem, pillars.Hour.Stem),
		Compatibility:   clone(data.Compatibility[pillars.Day.Stem.String()]),
		Summary:         catalog.Lookup(data.Summaries, dominant.String(), data.SummaryFallback),
	}
	if rec.BirthTime != nil {
		p.Birthtime = rec.BirthTime.String()
	}

	return p, nil
}

// LifeDirection looks up the direction text for a day/hour stem pair.
// Most of the hundred pairs are unmapped and share a generic text.
func LifeDirection(day, hour cycle.Stem) string {
	return catalog.Lookup(data.Directions, day.String()+hour.String(), data.DirectionFallback)
}

func views(p cycle.Pillars) []PillarView {
	all := p.All()
	out := make([]PillarView, 0, len(all))
	for _, pillar := range all {
		out = append(out, PillarView{
			HeavenlyStem:  pillar.Stem,
			EarthlyBranch: pillar.Branch,
			Element:       pillar.Stem.Phase(),
		})
	}
	return out
}

func clone(items []string) []string {
	if items == nil {
		return []string{}
	}
	return append([]string(nil), items...)
}
