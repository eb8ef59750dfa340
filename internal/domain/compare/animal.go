package compare

import (
	"slices"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/animal"
	"github.com/phrazzld/uranai-api/internal/domain/catalog"
)

// Animal pair scores before the shared-colour bonus.
const (
	sameAnimalScore    = 80
	goodMatchScore     = 90
	otherAnimalScore   = 60
	unknownAnimalScore = 50
	sameColorBonus     = 10
)

// AnimalUser is the animal-fortune projection of one compared result.
type AnimalUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Animal     string `json:"animal"`
	Color      string `json:"color"`
	AnimalType string `json:"animalType"`
}

func (u AnimalUser) label() string {
	return u.Name + "(" + u.Color + u.Animal + ")"
}

// AnimalScore rates two animal/colour readings. Either side's good-match
// list counts, so the score is symmetric. The result may exceed 100 before
// clamping.
func AnimalScore(a, b AnimalUser) int {
	if a.Animal == "" || b.Animal == "" {
		return unknownAnimalScore
	}

	var score int
	switch {
	case a.Animal == b.Animal:
		score = sameAnimalScore
	case slices.Contains(animal.GoodMatches(a.Animal), b.Animal),
		slices.Contains(animal.GoodMatches(b.Animal), a.Animal):
		score = goodMatchScore
	default:
		score = otherAnimalScore
	}
	if a.Color == b.Color {
		score += sameColorBonus
	}
	return score
}

func compareAnimal(results []domain.StoredResult) (Result, error) {
	people := make([]AnimalUser, len(results))
	users := make([]any, len(results))
	names := make([]string, len(results))
	for i, r := range results {
		p, err := decodeProfile[struct {
			Name   string `json:"name"`
			Animal string `json:"animal"`
			Color  string `json:"color"`
			Type   string `json:"type"`
		}](r)
		if err != nil {
			return Result{}, err
		}
		u := AnimalUser{
			ID:         r.ID.String(),
			Name:       displayName(p.Name),
			Animal:     p.Animal,
			Color:      p.Color,
			AnimalType: p.Type,
		}
		people[i], users[i], names[i] = u, u, u.Name
	}

	out := newResult(domain.SystemAnimalFortune, users)
	pairs, matrix := pairwise(names,
		func(i, j int) int {
			return AnimalScore(people[i], people[j])
		},
		func(i, j, score int) string {
			return animalComments.comment(score, people[i].Animal, people[j].Animal)
		},
	)
	out.Compatibility = pairs
	out.TeamSuggestion = animalTeam(people, matrix)
	return out, nil
}

// animalTeam ranks people by mean pair score for the leader candidates and
// buckets them by animal role.
func animalTeam(people []AnimalUser, matrix [][]int) string {
	if len(people) < MinTeamSize {
		return data.Team.Minimum
	}

	members := func(animals []string) string {
		var out []string
		for _, u := range people {
			if slices.Contains(animals, u.Animal) {
				out = append(out, u.label())
			}
		}
		return roster(out)
	}

	labelled := make([]string, len(people))
	for i, u := range people {
		labelled[i] = u.label()
	}

	roles := data.AnimalRoles
	return catalog.Render(animalTemplate, map[string]string{
		"Leaders":     leaderCandidates(labelled, matrix),
		"Commanders":  members(roles.Leaders),
		"Support":     members(roles.Support),
		"Creative":    members(roles.Creative),
		"Stabilizers": members(roles.Stabilizers),
	})
}
