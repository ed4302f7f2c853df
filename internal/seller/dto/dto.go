package dto

type SellerFilters struct {
	SearchQuery string // first/last/business name, email, referredBy
	Status      string // "", "all" or a seller status
}

type SellerStats struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Pending     int `json:"pending"`
	Suspended   int `json:"suspended"`
	WithAds     int `json:"withAds"`
	Businesses  int `json:"businesses"`
	Starter     int `json:"starter"`
	Growth      int `json:"growth"`
	Enterprise  int `json:"enterprise"`
	Referrals   int `json:"referrals"`
	BlackFriday int `json:"blackFriday"`
}
