package sanmei

import (
	"strings"

	"github.com/phrazzld/uranai-api/internal/domain/catalog"
	"github.com/phrazzld/uranai-api/internal/domain/cycle"
)

// Tendency describes how evenly the elements are distributed.
type Tendency string

// Tendencies, from most to least lopsided.
const (
	Skewed   Tendency = "偏り"
	Moderate Tendency = "適度な変化"
	Balanced Tendency = "均衡"
)

// ClassifyBalance reports the tendency of a count balance: skewed when the
// strongest element holds more than 40% of the slots, balanced when the
// strongest and weakest differ by less than 10 points, moderate otherwise.
func ClassifyBalance(counts cycle.Balance) Tendency {
	total := counts.Total()
	if total == 0 {
		return Balanced
	}
	maxCount := counts[counts.Dominant()]
	minCount := counts[counts.Least()]

	switch {
	case maxCount*100 > 40*total:
		return Skewed
	case (maxCount-minCount)*100 < 10*total:
		return Balanced
	default:
		return Moderate
	}
}

// AnalyzeElements renders the elemental analysis paragraph.
func AnalyzeElements(counts cycle.Balance) string {
	strongest := counts.Dominant()
	weakest := counts.Least()
	view := map[string]any{
		"Max":   strongest.String(),
		"Min":   weakest.String(),
		"Trait": data.ElementTraits[strongest.String()],
	}

	var sb strings.Builder
	sb.WriteString(catalog.Render(analysisIntro, view))
	switch ClassifyBalance(counts) {
	case Skewed:
		sb.WriteString(catalog.Render(analysisSkewed, view))
	case Balanced:
		sb.WriteString(catalog.Render(analysisBalanced, view))
	default:
		sb.WriteString(catalog.Render(analysisModerate, view))
	}
	return sb.String()
}
