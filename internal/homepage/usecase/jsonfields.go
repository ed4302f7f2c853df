package usecase

import (
	"encoding/json"
	"errors"

	"github.com/fekuna/omnipos-seller-cms/internal/model"
)

var errIgnored = errors.New("edit ignored")

// JSONFields lists the textarea fields each section type exposes.
var JSONFields = map[model.SectionType]string{
	model.SectionHero:           "stats",
	model.SectionSuccessStories: "stories",
	model.SectionHowItWorks:     "steps",
	model.SectionWhyChooseUs:    "features",
	model.SectionFinalCTA:       "trustIndicators",
	model.SectionFooter:         "footer",
}

func jsonFieldAllowed(content model.SectionContent, field string) bool {
	if content == nil {
		return false
	}
	f, ok := JSONFields[content.SectionType()]
	return ok && f == field
}

// setJSONField decodes raw into the typed field. Stories and the footer are
// opaque and only need to be valid JSON, which the caller has checked.
func setJSONField(content model.SectionContent, field string, raw json.RawMessage) bool {
	switch c := content.(type) {
	case *model.HeroContent:
		var stats []model.Stat
		if json.Unmarshal(raw, &stats) != nil {
			return false
		}
		c.Stats = stats
	case *model.SuccessStoriesContent:
		c.Stories = append(json.RawMessage(nil), raw...)
	case *model.HowItWorksContent:
		var steps []model.Step
		if json.Unmarshal(raw, &steps) != nil {
			return false
		}
		c.Steps = steps
	case *model.WhyChooseUsContent:
		var features []model.Feature
		if json.Unmarshal(raw, &features) != nil {
			return false
		}
		c.Features = features
	case *model.FinalCTAContent:
		var indicators []model.Stat
		if json.Unmarshal(raw, &indicators) != nil {
			return false
		}
		c.TrustIndicators = indicators
	case *model.FooterContent:
		c.Raw = append(json.RawMessage(nil), raw...)
	default:
		return false
	}
	return true
}
