// Package animal computes an animal-fortune (動物占い) reading: an animal,
// a colour and a behavioural type derived from the birth date by modular
// arithmetic, with per-animal compatibility lists.
package animal

import (
	"embed"
	"strings"
	"text/template"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/catalog"
)

//go:embed data.yaml
var dataFS embed.FS

type matches struct {
	Good []string `yaml:"good"`
	Bad  []string `yaml:"bad"`
}

type tables struct {
	Animals         []string            `yaml:"animals"`
	Colors          []string            `yaml:"colors"`
	Types           []string            `yaml:"types"`
	Characteristics map[string][]string `yaml:"characteristics"`
	AnimalTraits    map[string]string   `yaml:"animalTraits"`
	ColorTraits     map[string]string   `yaml:"colorTraits"`
	Compatibility   map[string]matches  `yaml:"compatibility"`
	Advice          map[string]string   `yaml:"advice"`
	Description     string              `yaml:"description"`
	Summary         string              `yaml:"summary"`
}

var (
	data                = catalog.MustLoad[tables](dataFS, "data.yaml")
	descriptionTemplate = catalog.MustParseTemplate("description", data.Description)
	summaryTemplate     = catalog.MustParseTemplate("summary", data.Summary)
	adviceTemplates     = parseAdvice(data.Advice)
)

func parseAdvice(texts map[string]string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(texts))
	for typ, text := range texts {
		out[typ] = catalog.MustParseTemplate("advice."+typ, text)
	}
	return out
}

// Companion is an animal shown in a compatibility list with a colour.
type Companion struct {
	Animal string `json:"animal"`
	Color  string `json:"color"`
}

// Compatibility holds the good and bad companions of an animal.
type Compatibility struct {
	Good []Companion `json:"good"`
	Bad  []Companion `json:"bad"`
}

// Profile is the animal-fortune reading for one person.
// Name is not derived from the date; callers set it for comparisons.
type Profile struct {
	Name                 string        `json:"name,omitempty"`
	Birthdate            domain.Date   `json:"birthdate"`
	Gender               domain.Gender `json:"gender,omitempty"`
	Animal               string        `json:"animal"`
	Color                string        `json:"color"`
	Type                 string        `json:"type"`
	Characteristics      []string      `json:"characteristics"`
	AnimalCharacteristic string        `json:"animalCharacteristic"`
	ColorCharacteristic  string        `json:"colorCharacteristic"`
	Compatibility        Compatibility `json:"compatibility"`
	Advice               string        `json:"advice"`
	Description          string        `json:"description"`
	Summary              string        `json:"summary"`
}

// Animals returns the twelve animals in table order.
func Animals() []string { return append([]string(nil), data.Animals...) }

// Colors returns the twelve colours in table order.
func Colors() []string { return append([]string(nil), data.Colors...) }

// Types returns the eight behavioural types in table order.
func Types() []string { return append([]string(nil), data.Types...) }

// GoodMatches returns the animals that pair well with animal.
func GoodMatches(animal string) []string {
	return append([]string(nil), data.Compatibility[animal].Good...)
}

// BadMatches returns the animals that pair badly with animal.
func BadMatches(animal string) []string {
	return append([]string(nil), data.Compatibility[animal].Bad...)
}

// Indexes returns the animal, colour and type table positions for a date.
func Indexes(date domain.Date) (animal, color, typ int) {
	yy := date.Year % 100
	month := int(date.Month)
	animal = (yy + month + date.Day) % len(data.Animals)
	color = (month * date.Day) % len(data.Colors)
	typ = (yy + date.Day) % len(data.Types)
	return animal, color, typ
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithColorPicker replaces the companion colour picker.
func WithColorPicker(p ColorPicker) Option {
	return func(c *Calculator) {
		if p != nil {
			c.picker = p
		}
	}
}

// Calculator produces animal-fortune readings.
type Calculator struct {
	picker ColorPicker
}

// NewCalculator creates a Calculator. The default picker is HashPicker.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{picker: HashPicker{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate produces a reading with the default calculator.
func Calculate(date domain.Date, gender domain.Gender) (Profile, error) {
	return NewCalculator().Calculate(date, gender)
}

// Calculate produces the animal-fortune reading for a birth date.
func (c *Calculator) Calculate(date domain.Date, gender domain.Gender) (Profile, error) {
	if date.IsZero() {
		return Profile{}, domain.NewValidationError("birthdate", "is required", domain.ErrValidation)
	}

	ai, ci, ti := Indexes(date)
	p := Profile{
		Birthdate:            date,
		Gender:               gender,
		Animal:               data.Animals[ai],
		Color:                data.Colors[ci],
		Type:                 data.Types[ti],
		Characteristics:      append([]string{}, data.Characteristics[data.Types[ti]]...),
		AnimalCharacteristic: data.AnimalTraits[data.Animals[ai]],
		ColorCharacteristic:  data.ColorTraits[data.Colors[ci]],
	}
	p.Compatibility = c.compatibility(p.Animal)
	if tmpl, ok := adviceTemplates[p.Type]; ok {
		p.Advice = catalog.Render(tmpl, p)
	}
	p.Description = catalog.Render(descriptionTemplate, p)
	p.Summary = catalog.Render(summaryTemplate, map[string]any{
		"Color":      p.Color,
		"Animal":     p.Animal,
		"Type":       p.Type,
		"Advice":     p.Advice,
		"Companions": joinCompanions(p.Compatibility.Good),
	})

	return p, nil
}

func (c *Calculator) compatibility(animal string) Compatibility {
	m := data.Compatibility[animal]
	return Compatibility{
		Good: c.companions(animal, m.Good, RoleGood),
		Bad:  c.companions(animal, m.Bad, RoleBad),
	}
}

func (c *Calculator) companions(subject string, animals []string, role Role) []Companion {
	out := make([]Companion, len(animals))
	for i, a := range animals {
		out[i] = Companion{Animal: a, Color: c.picker.PickColor(subject, a, role, i)}
	}
	return out
}

func joinCompanions(list []Companion) string {
	parts := make([]string, len(list))
	for i, c := range list {
		parts[i] = c.Color + c.Animal
	}
	return strings.Join(parts, "、")
}
