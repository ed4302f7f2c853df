package model

type HeadingType string

const (
	HeadingText        HeadingType = "text"
	HeadingHero        HeadingType = "hero"
	HeadingFeature     HeadingType = "feature"
	HeadingPricing     HeadingType = "pricing"
	HeadingTestimonial HeadingType = "testimonial"
	HeadingFAQ         HeadingType = "faq"
)

var HeadingTypes = []HeadingType{HeadingText, HeadingHero, HeadingFeature, HeadingPricing, HeadingTestimonial, HeadingFAQ}

func (t HeadingType) Valid() bool {
	for _, h := range HeadingTypes {
		if h == t {
			return true
		}
	}
	return false
}

// ContentHeading is one section of a page. The optional fields carry no
// omitempty: empty values are stripped by the draft sanitizer before a write,
// so a field emptied by the editor disappears from the store.
type ContentHeading struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Order      int         `json:"order"`
	Content    string      `json:"content"`
	IsVisible  bool        `json:"isVisible"`
	Type       HeadingType `json:"type"`
	ImageURL   string      `json:"imageUrl"`
	ButtonText string      `json:"buttonText"`
	ButtonLink string      `json:"buttonLink"`
	Price      string      `json:"price"`
	Features   []string    `json:"features"`
}

type PageContent struct {
	Headings []ContentHeading `json:"headings"`
}

// NavItemContent maps a navigation item id to its page content.
type NavItemContent map[string]PageContent

// HeadingTemplates holds the starting values for a new heading of each type.
var HeadingTemplates = map[HeadingType]ContentHeading{
	HeadingHero: {
		Title:      "Start Selling Today",
		Content:    "Join thousands of successful sellers on our platform. Easy setup, powerful tools, and unlimited potential.",
		ButtonText: "Get Started",
		ButtonLink: "/signup",
		ImageURL:   "https://images.unsplash.com/photo-1556742049-0cfed4f6a45d?w=800",
	},
	HeadingFeature: {
		Title:    "Powerful Selling Tools",
		Content:  "Access advanced analytics, inventory management, and customer insights to grow your business.",
		ImageURL: "https://images.unsplash.com/photo-1460925895917-afdab827c52f?w=600",
	},
	HeadingPricing: {
		Title:    "Simple Pricing",
		Content:  "Choose the plan that fits your business needs. No hidden fees, cancel anytime.",
		Price:    "$29/month",
		Features: []string{"Unlimited listings", "Advanced analytics", "Priority support", "Custom storefront"},
	},
	HeadingTestimonial: {
		Title:    "What Our Sellers Say",
		Content:  `"This platform transformed my business. Sales increased by 300% in just 3 months!" - Sarah Johnson, Fashion Seller`,
		ImageURL: "https://images.unsplash.com/photo-1494790108755-2616b612b17c?w=400",
	},
	HeadingFAQ: {
		Title:   "How do I get started?",
		Content: "Getting started is easy! Simply sign up, verify your account, and you can start listing your products immediately. Our team will guide you through the setup process.",
	},
	HeadingText: {
		Title:   "New Section",
		Content: "Add your content here...",
	},
}
