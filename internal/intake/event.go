// Package intake carries public submissions (contact form and seller
// registration) from the site to the store, either directly or through Kafka.
package intake

import (
	"encoding/json"
	"time"
)

const (
	EventContactInquirySubmitted = "ContactInquirySubmitted"
	EventSellerRegistered        = "SellerRegistered"
)

type Event struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}
