package sanmei

import (
	"github.com/phrazzld/uranai-api/internal/domain/cycle"
)

// Star is one of the nine stars of the sanmei catalogue.
type Star string

// Stars in catalogue order. Star arithmetic indexes into this slice.
var Stars = [...]Star{"水星", "海王星", "冥王星", "木星", "土星", "金星", "太陽", "月星", "火星"}

func starAt(i int) Star {
	return Stars[cycle.Mod(i, len(Stars))]
}

// MainStar is (stem + branch) mod 9 of the year pillar.
func MainStar(year cycle.Pillar) Star {
	return starAt(year.Stem.Index() + year.Branch.Index())
}

// BodyStar is (stem + 2·branch) mod 9 of the month pillar.
func BodyStar(month cycle.Pillar) Star {
	return starAt(month.Stem.Index() + 2*month.Branch.Index())
}

// SpiritStar is (2·stem + branch) mod 9 of the day pillar.
func SpiritStar(day cycle.Pillar) Star {
	return starAt(2*day.Stem.Index() + day.Branch.Index())
}
