package dto

// SubmitInquiryInput is what the public contact form posts.
type SubmitInquiryInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}
