// Package feedback turns a stored profile into a coaching prompt for a
// language model and structures the model's answer into titled sections.
package feedback

import (
	"bytes"
	"embed"
	"encoding/json"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/catalog"
)

//go:embed data.yaml
var dataFS embed.FS

type tables struct {
	System   string                       `yaml:"system"`
	Focus    map[string]string            `yaml:"focus"`
	Prompts  map[string]string            `yaml:"prompts"`
	Subjects map[domain.SystemType]string `yaml:"subjects"`
	Unknown  string                       `yaml:"unknown"`
	Untitled string                       `yaml:"untitled"`
	Empty    string                       `yaml:"empty"`
	Fallback struct {
		Content     string `yaml:"content"`
		Section     string `yaml:"section"`
		SectionText string `yaml:"sectionText"`
	} `yaml:"fallback"`
}

const genericPrompt = "generic"

var (
	data      = catalog.MustLoad[tables](dataFS, "data.yaml")
	prompts   = parseAll(data.Prompts)
	workplace = catalog.MustParseTemplate("focus.workplace", data.Focus["workplace"])

	headingPattern = regexp.MustCompile(`^\s*\d+\.\s+\S`)
)

func parseAll(texts map[string]string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(texts))
	for name, text := range texts {
		out[name] = catalog.MustParseTemplate("prompt."+name, text)
	}
	return out
}

// Feedback is the structured answer returned to clients.
type Feedback struct {
	Type        domain.SystemType `json:"type"`
	ResultID    uuid.UUID         `json:"resultId"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Content     string            `json:"content"`
	Sections    map[string]string `json:"sections"`
	Error       bool              `json:"error,omitempty"`
}

// SystemInstruction is the role given to the model for every prompt.
func SystemInstruction() string {
	return data.System
}

// compactJSON keeps a JSON sub-document and prints it compacted.
type compactJSON string

func (c *compactJSON) UnmarshalJSON(b []byte) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return err
	}
	*c = compactJSON(buf.String())
	return nil
}

// view is the subset of every profile shape the prompts read. Unknown
// fields are ignored so that client-supplied results still get a prompt.
type view struct {
	Name                   string      `json:"name"`
	Birthdate              string      `json:"birthdate"`
	Birthtime              string      `json:"birthtime"`
	Gender                 string      `json:"gender"`
	DestinyNumber          int         `json:"destinyNumber"`
	PersonalityNumber      int         `json:"personalityNumber"`
	SoulNumber             int         `json:"soulNumber"`
	DestinyDescription     string      `json:"destinyDescription"`
	PersonalityDescription string      `json:"personalityDescription"`
	SoulDescription        string      `json:"soulDescription"`
	Elements               compactJSON `json:"elements"`
	Pillars                compactJSON `json:"pillars"`
	MainStar               string      `json:"mainStar"`
	BodyStar               string      `json:"bodyStar"`
	SpiritStar             string      `json:"spiritStar"`
	Characteristics        []string    `json:"characteristics"`
	Strengths              []string    `json:"strengths"`
	Weaknesses             []string    `json:"weaknesses"`
	LifeDirection          string      `json:"lifeDirection"`
	PersonalityType        string      `json:"personalityType"`
	Description            struct {
		Full string `json:"full"`
	} `json:"description"`
	CareerSuggestions    []string `json:"careerSuggestions"`
	Animal               string   `json:"animal"`
	Color                string   `json:"color"`
	AnimalType           string   `json:"type"`
	AnimalCharacteristic string   `json:"animalCharacteristic"`
	ColorCharacteristic  string   `json:"colorCharacteristic"`
	Advice               string   `json:"advice"`
	Summary              string   `json:"summary"`

	Focus string `json:"-"`
}

// Prompt builds the user prompt for r. A profile that cannot be read as
// its declared system falls back to a generic prompt over the raw JSON.
func Prompt(r *domain.StoredResult) string {
	focus := focusFor(r.Type)

	tmpl, ok := prompts[string(r.Type)]
	if ok {
		var v view
		if err := json.Unmarshal(r.Profile, &v); err == nil {
			v.Focus = focus
			if v.Birthtime == "" {
				v.Birthtime = data.Unknown
			}
			return strings.TrimSpace(catalog.Render(tmpl, v))
		}
	}

	var raw bytes.Buffer
	if err := json.Compact(&raw, r.Profile); err != nil {
		raw.Write(r.Profile)
	}
	return strings.TrimSpace(catalog.Render(prompts[genericPrompt], map[string]string{
		"System": r.Type.String(),
		"Raw":    raw.String(),
		"Focus":  focus,
	}))
}

func focusFor(t domain.SystemType) string {
	if subject, ok := data.Subjects[t]; ok {
		return catalog.Render(workplace, map[string]string{"Subject": subject})
	}
	return data.Focus["personal"]
}

// ParseSections splits model output at lines that start with "N. ".
// Each heading line becomes a key holding the trimmed text up to the next
// heading. Text before the first heading is dropped. When there are no
// headings the whole text is one untitled section.
func ParseSections(text string) map[string]string {
	sections := make(map[string]string)

	var (
		title string
		body  []string
	)
	flush := func() {
		if title != "" {
			sections[title] = strings.TrimSpace(strings.Join(body, "\n"))
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if headingPattern.MatchString(line) {
			flush()
			title = strings.TrimSpace(line)
			body = body[:0]
			continue
		}
		if title != "" {
			body = append(body, line)
		}
	}
	flush()

	if len(sections) == 0 {
		sections[data.Untitled] = text
	}
	return sections
}

// New structures generated content for r.
func New(r *domain.StoredResult, content string, at time.Time) Feedback {
	if strings.TrimSpace(content) == "" {
		content = data.Empty
	}
	return Feedback{
		Type:        r.Type,
		ResultID:    r.ID,
		GeneratedAt: at.UTC(),
		Content:     content,
		Sections:    ParseSections(content),
	}
}

// Fallback is returned when no feedback could be generated.
func Fallback(r *domain.StoredResult, at time.Time) Feedback {
	return Feedback{
		Type:        r.Type,
		ResultID:    r.ID,
		GeneratedAt: at.UTC(),
		Content:     data.Fallback.Content,
		Sections:    map[string]string{data.Fallback.Section: data.Fallback.SectionText},
		Error:       true,
	}
}
