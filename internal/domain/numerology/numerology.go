// Package numerology reduces a name and a birth date to the destiny,
// personality and soul numbers.
package numerology

import (
	"embed"
	"strings"
	"unicode/utf16"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/catalog"
)

//go:embed data.yaml
var dataFS embed.FS

type tables struct {
	Destiny     map[int]string `yaml:"destiny"`
	Personality map[int]string `yaml:"personality"`
	Soul        map[int]string `yaml:"soul"`
	Summary     string         `yaml:"summary"`
}

var (
	data            = catalog.MustLoad[tables](dataFS, "data.yaml")
	summaryTemplate = catalog.MustParseTemplate("numerology", data.Summary)
)

// compatibleSteps are added to the destiny number to find compatible numbers.
var compatibleSteps = [...]int{1, 3, 5}

// Profile is the numerology reading for one person.
type Profile struct {
	Name                   string      `json:"name"`
	Birthdate              domain.Date `json:"birthdate"`
	DestinyNumber          int         `json:"destinyNumber"`
	PersonalityNumber      int         `json:"personalityNumber"`
	SoulNumber             int         `json:"soulNumber"`
	Compatibility          []int       `json:"compatibility"`
	DestinyDescription     string      `json:"destinyDescription"`
	PersonalityDescription string      `json:"personalityDescription"`
	SoulDescription        string      `json:"soulDescription"`
	Summary                string      `json:"summary"`
}

// Reduce sums the decimal digits of n repeatedly until a single digit
// remains. Values of 9 or less are returned unchanged.
func Reduce(n int) int {
	if n < 0 {
		n = -n
	}
	for n > 9 {
		sum := 0
		for ; n > 0; n /= 10 {
			sum += n % 10
		}
		n = sum
	}
	return n
}

// DestinyNumber reduces day + month + reduced year.
func DestinyNumber(date domain.Date) int {
	return Reduce(date.Day + int(date.Month) + Reduce(date.Year))
}

// PersonalityNumber maps every UTF-16 code unit of name to code mod 9
// (0 counts as 9) and reduces the total.
func PersonalityNumber(name string) int {
	total := 0
	for _, unit := range utf16.Encode([]rune(name)) {
		v := int(unit) % 9
		if v == 0 {
			v = 9
		}
		total += v
	}
	return Reduce(total)
}

// CompatibleNumbers returns the numbers that pair well with destiny.
func CompatibleNumbers(destiny int) []int {
	out := make([]int, len(compatibleSteps))
	for i, step := range compatibleSteps {
		v := (destiny + step) % 9
		if v == 0 {
			v = 9
		}
		out[i] = v
	}
	return out
}

// Calculate produces the numerology profile for name and date.
func Calculate(name string, date domain.Date) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, domain.NewValidationError("name", "is required", domain.ErrValidation)
	}
	if date.IsZero() {
		return Profile{}, domain.NewValidationError("birthdate", "is required", domain.ErrValidation)
	}

	destiny := DestinyNumber(date)
	personality := PersonalityNumber(name)
	soul := Reduce(destiny + personality)

	p := Profile{
		Name:                   name,
		Birthdate:              date,
		DestinyNumber:          destiny,
		PersonalityNumber:      personality,
		SoulNumber:             soul,
		Compatibility:          CompatibleNumbers(destiny),
		DestinyDescription:     data.Destiny[destiny],
		PersonalityDescription: data.Personality[personality],
		SoulDescription:        data.Soul[soul],
	}
	p.Summary = catalog.Render(summaryTemplate, p)

	return p, nil
}
