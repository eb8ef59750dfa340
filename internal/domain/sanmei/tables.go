package sanmei

import (
	"embed"
	"text/template"

	"github.com/phrazzld/uranai-api/internal/domain/catalog"
)

//go:embed data.yaml
var dataFS embed.FS

type elementTrait struct {
	Strength string `yaml:"strength"`
	Weakness string `yaml:"weakness"`
	Balance  string `yaml:"balance"`
}

type outlookTexts struct {
	Favorable  string `yaml:"favorable"`
	Cautionary string `yaml:"cautionary"`
	Neutral    string `yaml:"neutral"`
}

type summaryText struct {
	Opening string `yaml:"opening"`
	Closing string `yaml:"closing"`
}

type tables struct {
	Characteristics    map[string][]string     `yaml:"characteristics"`
	Strengths          map[string][]string     `yaml:"strengths"`
	Weaknesses         map[string][]string     `yaml:"weaknesses"`
	Directions         map[string]string       `yaml:"directions"`
	DirectionFallback  string                  `yaml:"directionFallback"`
	Compatibility      map[string][]string     `yaml:"compatibility"`
	BodyStars          map[string]string       `yaml:"bodyStars"`
	BodyStarFallback   string                  `yaml:"bodyStarFallback"`
	SpiritStars        map[string]string       `yaml:"spiritStars"`
	SpiritStarFallback string                  `yaml:"spiritStarFallback"`
	ElementTraits      map[string]elementTrait `yaml:"elementTraits"`
	Analysis           struct {
		Intro    string `yaml:"intro"`
		Skewed   string `yaml:"skewed"`
		Balanced string `yaml:"balanced"`
		Moderate string `yaml:"moderate"`
	} `yaml:"analysis"`
	MajorFortune    outlookTexts           `yaml:"majorFortune"`
	AnnualFortune   outlookTexts           `yaml:"annualFortune"`
	Summary         string                 `yaml:"summary"`
	Summaries       map[string]summaryText `yaml:"summaries"`
	SummaryFallback string                 `yaml:"summaryFallback"`
}

type outlookTemplates map[Outlook]*template.Template

func parseOutlook(name string, texts outlookTexts) outlookTemplates {
	return outlookTemplates{
		Favorable:  catalog.MustParseTemplate(name+".favorable", texts.Favorable),
		Cautionary: catalog.MustParseTemplate(name+".cautionary", texts.Cautionary),
		Neutral:    catalog.MustParseTemplate(name+".neutral", texts.Neutral),
	}
}

var (
	data = catalog.MustLoad[tables](dataFS, "data.yaml")

	analysisIntro    = catalog.MustParseTemplate("analysis.intro", data.Analysis.Intro)
	analysisSkewed   = catalog.MustParseTemplate("analysis.skewed", data.Analysis.Skewed)
	analysisBalanced = catalog.MustParseTemplate("analysis.balanced", data.Analysis.Balanced)
	analysisModerate = catalog.MustParseTemplate("analysis.moderate", data.Analysis.Moderate)

	majorTemplates  = parseOutlook("majorFortune", data.MajorFortune)
	annualTemplates = parseOutlook("annualFortune", data.AnnualFortune)
	summaryTemplate = catalog.MustParseTemplate("summary", data.Summary)
)
