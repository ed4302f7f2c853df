package site

import (
	"encoding/json"

	"github.com/fekuna/omnipos-seller-cms/internal/model"
)

type layoutView struct {
	SiteName string
	Title    string
	Nav      []model.NavigationItem
	Current  string
}

type homeView struct {
	layoutView
	Sections []model.HomepageSection
}

type pageView struct {
	layoutView
	Item     model.NavigationItem
	Headings []model.ContentHeading
}

type story struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Quote  string `json:"quote"`
	Avatar string `json:"avatar"`
	Rating int    `json:"rating"`
}

type footerLink struct {
	Label    string `json:"label"`
	Href     string `json:"href"`
	External bool   `json:"external"`
}

type footer struct {
	CompanyInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Tagline     string `json:"tagline"`
	} `json:"companyInfo"`
	LinkSections map[string][]footerLink `json:"linkSections"`
}

// stories decodes the free-form stories list; entries that do not fit are skipped.
func stories(raw json.RawMessage) []story {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]story, 0, len(items))
	for _, item := range items {
		var s story
		if json.Unmarshal(item, &s) == nil && s.Name != "" {
			out = append(out, s)
		}
	}
	return out
}

func footerOf(raw json.RawMessage) *footer {
	var f footer
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}

func visibleSections(c model.HomepageContent) []model.HomepageSection {
	out := make([]model.HomepageSection, 0, len(c.Sections))
	for _, s := range c.Sections {
		if s.IsVisible {
			out = append(out, s)
		}
	}
	model.SortSections(out)
	return out
}

func visibleHeadings(p model.PageContent) []model.ContentHeading {
	out := make([]model.ContentHeading, 0, len(p.Headings))
	for _, h := range p.Headings {
		if h.IsVisible {
			out = append(out, h)
		}
	}
	model.SortHeadings(out)
	return out
}
