package model

// NavigationItem is one page of the seller site. ID is the store key and is
// never written into the document itself.
type NavigationItem struct {
	ID          string `json:"id,omitempty"`
	Label       string `json:"label"`
	Href        string `json:"href"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// NavigationTemplate prefills the page form.
type NavigationTemplate struct {
	Label       string `json:"label"`
	Href        string `json:"href"`
	Description string `json:"description"`
}

var NavigationTemplates = []NavigationTemplate{
	{Label: "Home", Href: "/", Description: "Main landing page showcasing your platform's value proposition"},
	{Label: "How It Works", Href: "/how-it-works", Description: "Step-by-step guide for new sellers to get started"},
	{Label: "Pricing", Href: "/pricing", Description: "Pricing plans and commission structure for sellers"},
	{Label: "Success Stories", Href: "/success-stories", Description: "Testimonials and case studies from successful sellers"},
	{Label: "Seller Resources", Href: "/resources", Description: "Tools, guides, and resources to help sellers succeed"},
	{Label: "Join Now", Href: "/signup", Description: "Seller registration and onboarding page"},
}
