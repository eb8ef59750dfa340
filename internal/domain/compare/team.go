package compare

import (
	"sort"
	"strings"

	"github.com/phrazzld/uranai-api/internal/domain/catalog"
)

// scoreFunc scores the pair (i, j) of compared people.
type scoreFunc func(i, j int) int

// commentFunc describes a score for the pair (i, j).
type commentFunc func(i, j, score int) string

// pairwise scores every unordered pair once, in input order, and returns
// the pairs together with a symmetric score matrix for ranking.
func pairwise(names []string, score scoreFunc, comment commentFunc) ([]Pair, [][]int) {
	n := len(names)
	matrix := make([][]int, n)
	for i := range matrix {
		matrix[i] = make([]int, n)
	}

	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := score(i, j)
			matrix[i][j], matrix[j][i] = s, s
			pairs = append(pairs, Pair{
				User1:   names[i],
				User2:   names[j],
				Score:   clampScore(s),
				Comment: comment(i, j, s),
			})
		}
	}
	return pairs, matrix
}

// rank orders people by their mean score against everyone else, highest
// first. Ties keep input order.
func rank(matrix [][]int) []int {
	n := len(matrix)
	totals := make([]int, n)
	for i, row := range matrix {
		for j, s := range row {
			if i != j {
				totals[i] += clampScore(s)
			}
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	// Every mean shares the denominator n-1, so totals rank the same way.
	sort.SliceStable(order, func(a, b int) bool {
		return totals[order[a]] > totals[order[b]]
	})
	return order
}

// rankedSuggestion names the top one or two people by mean score as leader
// candidates and everyone else as team members.
func rankedSuggestion(names []string, matrix [][]int) string {
	if len(names) < MinTeamSize {
		return data.Team.Minimum
	}

	order := rank(matrix)
	leaders := leaderCount(len(order))
	return catalog.Render(rankedTemplate, map[string]string{
		"Leaders": pick(names, order[:leaders]),
		"Members": pick(names, order[leaders:]),
	})
}

// leaderCandidates names the top one or two labels by mean score.
func leaderCandidates(labels []string, matrix [][]int) string {
	order := rank(matrix)
	return roster(pickAll(labels, order[:leaderCount(len(order))]))
}

func leaderCount(n int) int {
	return min(2, n)
}

func pick(labels []string, idx []int) string {
	return strings.Join(pickAll(labels, idx), "、")
}

func pickAll(labels []string, idx []int) []string {
	out := make([]string, len(idx))
	for k, i := range idx {
		out[k] = labels[i]
	}
	return out
}

// roster joins labelled members, or returns the "none" text when empty.
func roster(members []string) string {
	if len(members) == 0 {
		return data.None
	}
	return strings.Join(members, "、")
}
