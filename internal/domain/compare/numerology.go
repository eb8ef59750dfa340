package compare

import (
	"github.com/phrazzld/uranai-api/internal/domain"
)

// NumerologyUser is the numerology projection of one compared result.
type NumerologyUser struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	DestinyNumber     int    `json:"destinyNumber"`
	PersonalityNumber int    `json:"personalityNumber"`
	SoulNumber        int    `json:"soulNumber"`
}

// NumerologyScore rates two destiny numbers: 100 less 10 per step apart.
func NumerologyScore(a, b int) int {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return max(0, 100-diff*10)
}

func compareNumerology(results []domain.StoredResult) (Result, error) {
	people := make([]NumerologyUser, len(results))
	users := make([]any, len(results))
	names := make([]string, len(results))
	for i, r := range results {
		u, err := decodeProfile[NumerologyUser](r)
		if err != nil {
			return Result{}, err
		}
		u.ID = r.ID.String()
		u.Name = displayName(u.Name)
		people[i], users[i], names[i] = u, u, u.Name
	}

	out := newResult(domain.SystemNumerology, users)
	pairs, matrix := pairwise(names,
		func(i, j int) int {
			return NumerologyScore(people[i].DestinyNumber, people[j].DestinyNumber)
		},
		func(_, _, score int) string {
			return generalComments.comment(score, "", "")
		},
	)
	out.Compatibility = pairs
	out.TeamSuggestion = rankedSuggestion(names, matrix)
	return out, nil
}
