package model

import (
	"encoding/json"
	"fmt"
)

type SectionType string

const (
	SectionHero           SectionType = "hero"
	SectionSuccessStories SectionType = "success_stories"
	SectionHowItWorks     SectionType = "how_it_works"
	SectionPricingTeaser  SectionType = "pricing_teaser"
	SectionWhyChooseUs    SectionType = "why_choose_us"
	SectionFinalCTA       SectionType = "final_cta"
	SectionFooter         SectionType = "footer"
)

type HomepageContent struct {
	Sections    []HomepageSection `json:"sections"`
	LastUpdated string            `json:"lastUpdated"`
}

// HomepageSection is a tagged union over Type. Content holds the typed struct
// for the known types and *OpaqueContent for anything else.
type HomepageSection struct {
	ID        string
	Type      SectionType
	Title     string
	Order     int
	IsVisible bool
	Content   SectionContent
}

type SectionContent interface {
	SectionType() SectionType
}

type sectionWire struct {
	ID        string          `json:"id"`
	Type      SectionType     `json:"type"`
	Title     string          `json:"title"`
	Order     int             `json:"order"`
	IsVisible bool            `json:"isVisible"`
	Content   json.RawMessage `json:"content"`
}

func (s HomepageSection) MarshalJSON() ([]byte, error) {
	w := sectionWire{ID: s.ID, Type: s.Type, Title: s.Title, Order: s.Order, IsVisible: s.IsVisible}
	if s.Content != nil {
		raw, err := json.Marshal(s.Content)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", s.ID, err)
		}
		w.Content = raw
	}
	return json.Marshal(w)
}

func (s *HomepageSection) UnmarshalJSON(data []byte) error {
	var w sectionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	content, err := DecodeSectionContent(w.Type, w.Content)
	if err != nil {
		return fmt.Errorf("section %s: %w", w.ID, err)
	}
	*s = HomepageSection{ID: w.ID, Type: w.Type, Title: w.Title, Order: w.Order, IsVisible: w.IsVisible, Content: content}
	return nil
}

// DecodeSectionContent builds the typed content for t from raw JSON.
func DecodeSectionContent(t SectionType, raw json.RawMessage) (SectionContent, error) {
	var content SectionContent
	switch t {
	case SectionHero:
		content = &HeroContent{}
	case SectionSuccessStories:
		content = &SuccessStoriesContent{}
	case SectionHowItWorks:
		content = &HowItWorksContent{}
	case SectionPricingTeaser:
		content = &PricingTeaserContent{}
	case SectionWhyChooseUs:
		content = &WhyChooseUsContent{}
	case SectionFinalCTA:
		content = &FinalCTAContent{}
	case SectionFooter:
		content = &FooterContent{}
	default:
		content = &OpaqueContent{Type: t}
	}
	if len(raw) == 0 || string(raw) == "null" {
		return content, nil
	}
	if err := json.Unmarshal(raw, content); err != nil {
		return nil, err
	}
	return content, nil
}

type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Button struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

type Step struct {
	ID          string `json:"id"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Feature struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type PriceCard struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type HeroContent struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	Description     string `json:"description"`
	ButtonText      string `json:"buttonText"`
	ButtonLink      string `json:"buttonLink"`
	BackgroundImage string `json:"backgroundImage"`
	Stats           []Stat `json:"stats"`
}

func (*HeroContent) SectionType() SectionType { return SectionHero }

// SuccessStoriesContent keeps Stories as raw JSON; it is only syntax checked.
type SuccessStoriesContent struct {
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle"`
	Description string          `json:"description"`
	Stories     json.RawMessage `json:"stories,omitempty"`
}

func (*SuccessStoriesContent) SectionType() SectionType { return SectionSuccessStories }

type HowItWorksContent struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
}

func (*HowItWorksContent) SectionType() SectionType { return SectionHowItWorks }

type PricingTeaserContent struct {
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
	SetupCost   PriceCard `json:"setupCost"`
	Commission  PriceCard `json:"commission"`
}

func (*PricingTeaserContent) SectionType() SectionType { return SectionPricingTeaser }

type WhyChooseUsContent struct {
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
	Features    []Feature `json:"features"`
}

func (*WhyChooseUsContent) SectionType() SectionType { return SectionWhyChooseUs }

type FinalCTAContent struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	PrimaryButton   Button `json:"primaryButton"`
	SecondaryButton Button `json:"secondaryButton"`
	TrustIndicators []Stat `json:"trustIndicators"`
}

func (*FinalCTAContent) SectionType() SectionType { return SectionFinalCTA }

// FooterContent is stored and edited as one opaque JSON object.
type FooterContent struct {
	Raw json.RawMessage
}

func (*FooterContent) SectionType() SectionType { return SectionFooter }

func (f FooterContent) MarshalJSON() ([]byte, error) {
	if len(f.Raw) == 0 {
		return []byte("null"), nil
	}
	return f.Raw, nil
}

func (f *FooterContent) UnmarshalJSON(data []byte) error {
	f.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// OpaqueContent preserves sections of a type this version does not know.
type OpaqueContent struct {
	Type SectionType
	Raw  json.RawMessage
}

func (o *OpaqueContent) SectionType() SectionType { return o.Type }

func (o OpaqueContent) MarshalJSON() ([]byte, error) {
	if len(o.Raw) == 0 {
		return []byte("null"), nil
	}
	return o.Raw, nil
}

func (o *OpaqueContent) UnmarshalJSON(data []byte) error {
	o.Raw = append(json.RawMessage(nil), data...)
	return nil
}
