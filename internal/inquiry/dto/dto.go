package dto

type InquiryFilters struct {
	SearchQuery string // name, email, phone, message
	Status      string // "", "all", "pending" or "read"
	Reason      string // "", "all" or a reason code
}

type InquiryStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Read    int `json:"read"`
	Today   int `json:"today"`
}
