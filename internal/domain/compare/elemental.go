package compare

import (
	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/catalog"
	"github.com/phrazzld/uranai-api/internal/domain/cycle"
	"github.com/phrazzld/uranai-api/internal/domain/fourpillars"
	"github.com/phrazzld/uranai-api/internal/domain/sanmei"
)

// FourPillarsUser is the four-pillars projection of one compared result.
type FourPillarsUser struct {
	ID       string                   `json:"id"`
	Name     string                   `json:"name"`
	Elements cycle.Balance            `json:"elements"`
	Pillars  []fourpillars.PillarView `json:"pillars"`
}

// SanmeiUser is the sanmei projection of one compared result.
type SanmeiUser struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	MainStar   sanmei.Star `json:"mainStar"`
	BodyStar   sanmei.Star `json:"bodyStar"`
	SpiritStar sanmei.Star `json:"spiritStar"`
}

// ElementalScore rates two elemental balances given in percent: 100 less
// half the summed absolute difference per phase. Identical balances score
// 100 and disjoint ones 0.
func ElementalScore(a, b cycle.Balance) int {
	diff := 0
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		diff += d
	}
	return clampScore(100 - diff/2)
}

func (e *Engine) compareFourPillars(results []domain.StoredResult) (Result, error) {
	shares := make([]cycle.Balance, len(results))
	users := make([]any, len(results))
	names := make([]string, len(results))
	for i, r := range results {
		u, err := decodeProfile[FourPillarsUser](r)
		if err != nil {
			return Result{}, err
		}
		u.ID = r.ID.String()
		u.Name = displayName(u.Name)
		shares[i], users[i], names[i] = u.Elements, u, u.Name
	}

	out := newResult(domain.SystemFourPillars, users)
	e.scoreElements(&out, names, shares)
	return out, nil
}

func (e *Engine) compareSanmei(results []domain.StoredResult) (Result, error) {
	shares := make([]cycle.Balance, len(results))
	users := make([]any, len(results))
	names := make([]string, len(results))
	for i, r := range results {
		u, err := decodeProfile[SanmeiUser](r)
		if err != nil {
			return Result{}, err
		}
		balance, err := decodeProfile[struct {
			ElementShares cycle.Balance `json:"elementShares"`
		}](r)
		if err != nil {
			return Result{}, err
		}
		u.ID = r.ID.String()
		u.Name = displayName(u.Name)
		shares[i], users[i], names[i] = balance.ElementShares, u, u.Name
	}

	out := newResult(domain.SystemSanmei, users)
	e.scoreElements(&out, names, shares)
	return out, nil
}

// scoreElements fills in compatibility and the team text for the
// calendar-based systems. Without elemental scoring the compatibility list
// stays empty and the team text is a placeholder.
func (e *Engine) scoreElements(out *Result, names []string, shares []cycle.Balance) {
	if !e.elemental {
		if len(names) < MinTeamSize {
			out.TeamSuggestion = data.Team.Minimum
			return
		}
		out.TeamSuggestion = catalog.Render(pendingTemplate, map[string]string{
			"Label": data.Systems[string(out.Type)].Label,
		})
		return
	}

	pairs, matrix := pairwise(names,
		func(i, j int) int {
			return ElementalScore(shares[i], shares[j])
		},
		func(_, _, score int) string {
			return generalComments.comment(score, "", "")
		},
	)
	out.Compatibility = pairs
	out.TeamSuggestion = rankedSuggestion(names, matrix)
}
