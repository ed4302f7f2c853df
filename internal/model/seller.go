package model

import (
	"encoding/json"
	"time"
)

type SellerStatus string

const (
	SellerPending   SellerStatus = "pending"
	SellerActive    SellerStatus = "active"
	SellerSuspended SellerStatus = "suspended"
)

var SellerStatuses = []SellerStatus{SellerPending, SellerActive, SellerSuspended}

func (s SellerStatus) Valid() bool {
	return s == SellerPending || s == SellerActive || s == SellerSuspended
}

const (
	VatIndividual = "individual"
	VatBusiness   = "business"

	ShippingOwn        = "own"
	ShippingIntegrated = "integrated"

	PlanStarter    = "starter"
	PlanGrowth     = "growth"
	PlanEnterprise = "enterprise"
)

var PricingPlans = []string{PlanStarter, PlanGrowth, PlanEnterprise}

// Seller is a registration record in the VAT and pricing-plan shape. Fields
// of the older booth registration form are not decoded.
type Seller struct {
	ID string `json:"id,omitempty"`

	BusinessName  string `json:"businessName"`
	VatType       string `json:"vatType"`
	VatNumber     string `json:"vatNumber,omitempty"`
	HearAboutSurf string `json:"hearAboutSurf"`
	ReferredBy    string `json:"referredBy,omitempty"`

	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Pincode     string `json:"pincode"`
	Country     string `json:"country"`

	ShippingMethod string `json:"shippingMethod"`
	ShippingType   string `json:"shippingType,omitempty"`
	DeliveryTime   string `json:"deliveryTime,omitempty"`

	PricingPlan string `json:"pricingPlan,omitempty"`

	ShowAdsOnWebsite bool `json:"showAdsOnWebsite"`

	Status    SellerStatus `json:"status"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`

	EmailVerified  bool            `json:"emailVerified,omitempty"`
	VatVerified    bool            `json:"vatVerified,omitempty"`
	VatCompanyInfo json.RawMessage `json:"vatCompanyInfo,omitempty"`
}

func (s Seller) ContactName() string {
	return s.FirstName + " " + s.LastName
}

func (s Seller) Created() time.Time {
	return ParseTimestamp(s.CreatedAt)
}

// Timestamp formats t the way every record in the store carries its dates.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// ParseTimestamp reads an ISO-8601 date; unparsable values yield the zero time.
func ParseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000Z07:00", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

var ShippingMethodLabels = map[string]string{
	ShippingOwn:        "Own Shipping",
	ShippingIntegrated: "Integrated Partner",
}

var PricingPlanLabels = map[string]string{
	PlanStarter:    "Starter Plan",
	PlanGrowth:     "Growth Plan",
	PlanEnterprise: "Enterprise Plan",
}

var HearAboutLabels = map[string]string{
	"google_search":         "Google Search",
	"social_media":          "Social Media",
	"referral":              "Referral",
	"online_ad":             "Online Advertisement",
	"local_news":            "Local News/Media",
	"business_network":      "Business Network",
	"black_friday_campaign": "Black Friday Campaign",
	"other":                 "Other",
}
