// Package compare builds side-by-side comparisons of stored results of one
// system: a per-person projection, pairwise compatibility scores with
// commentary, and a team-composition suggestion.
package compare

import (
	"embed"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/catalog"
)

//go:embed data.yaml
var dataFS embed.FS

// MinResults is the smallest number of results that can be compared.
const MinResults = 2

// MinTeamSize is the smallest group that gets a team suggestion.
const MinTeamSize = 3

type system struct {
	Title string `yaml:"title"`
	Label string `yaml:"label"`
}

type tier struct {
	Min  int    `yaml:"min"`
	Text string `yaml:"text"`
}

type commentTable struct {
	Tiers    []tier `yaml:"tiers"`
	Fallback string `yaml:"fallback"`
}

type tables struct {
	Systems  map[string]system       `yaml:"systems"`
	Unnamed  string                  `yaml:"unnamed"`
	None     string                  `yaml:"none"`
	Analysis string                  `yaml:"analysis"`
	Comments map[string]commentTable `yaml:"comments"`
	Team     struct {
		Minimum       string `yaml:"minimum"`
		Pending       string `yaml:"pending"`
		Ranked        string `yaml:"ranked"`
		MBTI          string `yaml:"mbti"`
		AnimalFortune string `yaml:"animalFortune"`
	} `yaml:"team"`
	AnimalRoles struct {
		Leaders     []string `yaml:"leaders"`
		Support     []string `yaml:"support"`
		Creative    []string `yaml:"creative"`
		Stabilizers []string `yaml:"stabilizers"`
	} `yaml:"animalRoles"`
}

var (
	data             = catalog.MustLoad[tables](dataFS, "data.yaml")
	analysisTemplate = catalog.MustParseTemplate("analysis", data.Analysis)
	pendingTemplate  = catalog.MustParseTemplate("team.pending", data.Team.Pending)
	rankedTemplate   = catalog.MustParseTemplate("team.ranked", data.Team.Ranked)
	mbtiTeamTemplate = catalog.MustParseTemplate("team.mbti", data.Team.MBTI)
	animalTemplate   = catalog.MustParseTemplate("team.animalFortune", data.Team.AnimalFortune)

	generalComments = newCommenter("general")
	mbtiComments    = newCommenter("mbti")
	animalComments  = newCommenter("animalFortune")
)

// Pair is the compatibility of two people, identified by display name.
type Pair struct {
	User1   string `json:"user1"`
	User2   string `json:"user2"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Result is a comparison of two or more results of one system. Users holds
// one system-specific projection per compared result, in input order.
type Result struct {
	Type           domain.SystemType `json:"type"`
	Title          string            `json:"title"`
	Users          []any             `json:"users"`
	Compatibility  []Pair            `json:"compatibility"`
	Analysis       string            `json:"analysis"`
	TeamSuggestion string            `json:"teamSuggestion"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithElementalScoring enables pairwise scoring of four-pillars and sanmei
// results by the similarity of their elemental balance. Without it those
// systems get an empty compatibility list and a placeholder team text.
func WithElementalScoring(enabled bool) Option {
	return func(e *Engine) {
		e.elemental = enabled
	}
}

// Engine compares stored results. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	elemental bool
}

// NewEngine creates an Engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ElementalScoring reports whether elemental scoring is enabled.
func (e *Engine) ElementalScoring() bool {
	return e.elemental
}

// Compare dispatches to the comparator for the results' system. All results
// must share one type; at least MinResults are required.
func (e *Engine) Compare(results []domain.StoredResult) (Result, error) {
	if len(results) < MinResults {
		return Result{}, domain.NewValidationError("resultIds",
			fmt.Sprintf("at least %d results are required", MinResults), domain.ErrInsufficientResults)
	}

	kind := results[0].Type
	for _, r := range results[1:] {
		if r.Type != kind {
			return Result{}, fmt.Errorf("%w: %s and %s", domain.ErrTypeMismatch, kind, r.Type)
		}
	}

	switch kind {
	case domain.SystemNumerology:
		return compareNumerology(results)
	case domain.SystemMBTI:
		return compareMBTI(results)
	case domain.SystemAnimalFortune:
		return compareAnimal(results)
	case domain.SystemFourPillars:
		return e.compareFourPillars(results)
	case domain.SystemSanmei:
		return e.compareSanmei(results)
	default:
		return Result{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedSystem, kind)
	}
}

func newResult(kind domain.SystemType, users []any) Result {
	sys := data.Systems[string(kind)]
	return Result{
		Type:          kind,
		Title:         sys.Title,
		Users:         users,
		Compatibility: []Pair{},
		Analysis: catalog.Render(analysisTemplate, map[string]any{
			"Count": len(users),
			"Label": sys.Label,
		}),
	}
}

// decodeProfile unmarshals a stored profile into one system's projection.
func decodeProfile[T any](r domain.StoredResult) (T, error) {
	var out T
	if err := json.Unmarshal(r.Profile, &out); err != nil {
		return out, domain.NewValidationError("result",
			fmt.Sprintf("stored result %s does not hold a %s profile", r.ID, r.Type), domain.ErrInvalidFormat)
	}
	return out, nil
}

func displayName(name string) string {
	if name == "" {
		return data.Unnamed
	}
	return name
}

type commenter struct {
	tiers    []tier
	texts    []*template.Template
	fallback *template.Template
}

func newCommenter(key string) commenter {
	table, ok := data.Comments[key]
	if !ok {
		// ALLOW-PANIC: embedded tables are part of the binary
		panic(fmt.Sprintf("comment table %q missing", key))
	}
	c := commenter{
		tiers:    table.Tiers,
		fallback: catalog.MustParseTemplate("comments."+key+".fallback", table.Fallback),
	}
	for i, t := range table.Tiers {
		c.texts = append(c.texts, catalog.MustParseTemplate(fmt.Sprintf("comments.%s.%d", key, i), t.Text))
	}
	return c
}

// comment picks the first tier whose minimum the score reaches. a and b
// name the two sides for tables that mention them.
func (c commenter) comment(score int, a, b string) string {
	vars := map[string]string{"A": a, "B": b}
	for i, t := range c.tiers {
		if score >= t.Min {
			return catalog.Render(c.texts[i], vars)
		}
	}
	return catalog.Render(c.fallback, vars)
}

func clampScore(score int) int {
	return max(0, min(100, score))
}
