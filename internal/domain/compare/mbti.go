package compare

import (
	"strings"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/catalog"
	"github.com/phrazzld/uranai-api/internal/domain/mbti"
)

// unknownTypeScore is used when either side has no type code.
const unknownTypeScore = 50

// MBTIUser is the MBTI projection of one compared result.
type MBTIUser struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	PersonalityType string   `json:"personalityType"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
}

func (u MBTIUser) label() string {
	return u.Name + "(" + u.PersonalityType + ")"
}

func compareMBTI(results []domain.StoredResult) (Result, error) {
	people := make([]MBTIUser, len(results))
	users := make([]any, len(results))
	names := make([]string, len(results))
	for i, r := range results {
		u, err := decodeProfile[MBTIUser](r)
		if err != nil {
			return Result{}, err
		}
		u.ID = r.ID.String()
		u.Name = displayName(u.Name)
		u.PersonalityType = strings.ToUpper(strings.TrimSpace(u.PersonalityType))
		people[i], users[i], names[i] = u, u, u.Name
	}

	out := newResult(domain.SystemMBTI, users)
	pairs, matrix := pairwise(names,
		func(i, j int) int {
			a, b := people[i].PersonalityType, people[j].PersonalityType
			if a == "" || b == "" {
				return unknownTypeScore
			}
			return mbti.Score(a, b)
		},
		func(i, j, score int) string {
			return mbtiComments.comment(score, people[i].PersonalityType, people[j].PersonalityType)
		},
	)
	out.Compatibility = pairs
	out.TeamSuggestion = mbtiTeam(people, matrix)
	return out, nil
}

// mbtiTeam ranks people by mean pair score for the leader candidates and
// groups them by temperament. Extraverted analysts and diplomats drive.
func mbtiTeam(people []MBTIUser, matrix [][]int) string {
	if len(people) < MinTeamSize {
		return data.Team.Minimum
	}

	groups := map[mbti.Temperament][]MBTIUser{}
	for _, u := range people {
		if t, ok := mbti.TemperamentOf(u.PersonalityType); ok {
			groups[t] = append(groups[t], u)
		}
	}

	var drivers []string
	for _, t := range []mbti.Temperament{mbti.Analyst, mbti.Diplomat} {
		for _, u := range groups[t] {
			if strings.HasPrefix(u.PersonalityType, "E") {
				drivers = append(drivers, u.label())
			}
		}
	}
	labelled := make([]string, len(people))
	for i, u := range people {
		labelled[i] = u.label()
	}
	labels := func(t mbti.Temperament) string {
		var out []string
		for _, u := range groups[t] {
			out = append(out, u.label())
		}
		return roster(out)
	}

	return catalog.Render(mbtiTeamTemplate, map[string]string{
		"Leaders":   leaderCandidates(labelled, matrix),
		"Drivers":   roster(drivers),
		"Analysts":  labels(mbti.Analyst),
		"Diplomats": labels(mbti.Diplomat),
		"Sentinels": labels(mbti.Sentinel),
		"Explorers": labels(mbti.Explorer),
	})
}
