package model

import "time"

type InquiryStatus string

const (
	InquiryPending InquiryStatus = "pending"
	InquiryRead    InquiryStatus = "read"
)

type ContactInquiry struct {
	ID        string        `json:"id,omitempty"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Reason    string        `json:"reason"`
	Message   string        `json:"message"`
	Status    InquiryStatus `json:"status"`
	Timestamp string        `json:"timestamp"`
}

func (c ContactInquiry) Time() time.Time {
	return ParseTimestamp(c.Timestamp)
}

var InquiryReasonLabels = map[string]string{
	"general_inquiry":   "General Inquiry",
	"technical_support": "Technical Support",
	"billing":           "Billing",
	"partnership":       "Partnership",
	"feedback":          "Feedback",
	"other":             "Other",
}
