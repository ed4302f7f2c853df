package dto

import "github.com/fekuna/omnipos-seller-cms/internal/model"

type UpdateStatusInput struct {
	ID     string
	Status model.SellerStatus `json:"status"`
}

// RegisterSellerInput is what the public registration form submits.
type RegisterSellerInput struct {
	BusinessName  string `json:"businessName"`
	VatType       string `json:"vatType"`
	VatNumber     string `json:"vatNumber"`
	HearAboutSurf string `json:"hearAboutSurf"`
	ReferredBy    string `json:"referredBy"`

	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Pincode     string `json:"pincode"`
	Country     string `json:"country"`

	ShippingMethod string `json:"shippingMethod"`
	ShippingType   string `json:"shippingType"`
	DeliveryTime   string `json:"deliveryTime"`
	PricingPlan    string `json:"pricingPlan"`

	ShowAdsOnWebsite bool `json:"showAdsOnWebsite"`
}
