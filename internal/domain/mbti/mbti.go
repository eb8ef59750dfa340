// Package mbti holds the sixteen-type catalogue and the pairwise
// compatibility score used when comparing two types.
package mbti

import (
	"embed"
	"sort"
	"strings"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/catalog"
)

//go:embed data.yaml
var dataFS embed.FS

type typeEntry struct {
	Title      string   `yaml:"title"`
	Full       string   `yaml:"full"`
	Strengths  []string `yaml:"strengths"`
	Weaknesses []string `yaml:"weaknesses"`
	Careers    []string `yaml:"careers"`
	Compatible struct {
		Types  []string `yaml:"types"`
		Reason string   `yaml:"reason"`
	} `yaml:"compatible"`
}

type tables struct {
	Types   map[string]typeEntry      `yaml:"types"`
	Matrix  map[string]map[string]int `yaml:"matrix"`
	Summary string                    `yaml:"summary"`
}

var (
	data            = catalog.MustLoad[tables](dataFS, "data.yaml")
	summaryTemplate = catalog.MustParseTemplate("mbti", data.Summary)
)

// Description is the title and long description of a type.
type Description struct {
	Title string `json:"title"`
	Full  string `json:"full"`
}

// CompatibleType is a recommended partner type with its score.
type CompatibleType struct {
	Type          string `json:"type"`
	Compatibility int    `json:"compatibility"`
	Reason        string `json:"reason"`
}

// Profile is the MBTI reading for one type code.
type Profile struct {
	Name              string           `json:"name,omitempty"`
	PersonalityType   string           `json:"personalityType"`
	Description       Description      `json:"description"`
	Strengths         []string         `json:"strengths"`
	Weaknesses        []string         `json:"weaknesses"`
	CompatibleTypes   []CompatibleType `json:"compatibleTypes"`
	CareerSuggestions []string         `json:"careerSuggestions"`
	Summary           string           `json:"summary"`
}

// Types returns the sixteen type codes in alphabetical order.
func Types() []string {
	out := make([]string, 0, len(data.Types))
	for code := range data.Types {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// ParseType normalizes a four-letter code and checks it is catalogued.
func ParseType(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := data.Types[code]; !ok {
		return "", domain.NewValidationError("personalityType", "must be one of the 16 MBTI types", domain.ErrInvalidFormat)
	}
	return code, nil
}

// Calculate builds the profile for a type code. name is optional.
func Calculate(code, name string) (Profile, error) {
	code, err := ParseType(code)
	if err != nil {
		return Profile{}, err
	}
	entry := data.Types[code]

	compatible := make([]CompatibleType, len(entry.Compatible.Types))
	names := make([]string, len(entry.Compatible.Types))
	for i, other := range entry.Compatible.Types {
		compatible[i] = CompatibleType{
			Type:          other,
			Compatibility: Score(code, other),
			Reason:        entry.Compatible.Reason,
		}
		names[i] = other
	}

	p := Profile{
		Name:              strings.TrimSpace(name),
		PersonalityType:   code,
		Description:       Description{Title: entry.Title, Full: entry.Full},
		Strengths:         append([]string{}, entry.Strengths...),
		Weaknesses:        append([]string{}, entry.Weaknesses...),
		CompatibleTypes:   compatible,
		CareerSuggestions: append([]string{}, entry.Careers...),
	}
	p.Summary = catalog.Render(summaryTemplate, map[string]any{
		"PersonalityType":   p.PersonalityType,
		"Description":       p.Description,
		"Strengths":         p.Strengths,
		"Weaknesses":        p.Weaknesses,
		"CareerSuggestions": p.CareerSuggestions,
		"CompatibleNames":   strings.Join(names, "、"),
	})

	return p, nil
}

// Score rates two types from 0 to 100. The curated matrix is consulted in
// both directions and the higher entry wins, so Score is symmetric.
// Unlisted pairs score 75 when identical and otherwise 50 plus 10 per
// letter the codes share in position.
func Score(a, b string) int {
	ab, okAB := data.Matrix[a][b]
	ba, okBA := data.Matrix[b][a]
	switch {
	case okAB && okBA:
		return max(ab, ba)
	case okAB:
		return ab
	case okBA:
		return ba
	}

	if a == b {
		return 75
	}
	common := 0
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			common++
		}
	}
	return 50 + common*10
}

// Temperament is one of the four type groups used to assign team roles.
type Temperament string

// Temperaments.
const (
	Analyst  Temperament = "analyst"
	Diplomat Temperament = "diplomat"
	Sentinel Temperament = "sentinel"
	Explorer Temperament = "explorer"
)

// TemperamentOf groups a type: NT analysts, NF diplomats, SJ sentinels
// and SP explorers. Malformed codes have no temperament.
func TemperamentOf(code string) (Temperament, bool) {
	if len(code) != 4 {
		return "", false
	}
	switch {
	case code[1] == 'N' && code[2] == 'T':
		return Analyst, true
	case code[1] == 'N' && code[2] == 'F':
		return Diplomat, true
	case code[1] == 'S' && code[3] == 'J':
		return Sentinel, true
	case code[1] == 'S' && code[3] == 'P':
		return Explorer, true
	default:
		return "", false
	}
}
