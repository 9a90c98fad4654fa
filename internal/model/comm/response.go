package comm

import "time"

// Response statuses. The only legal transition is draft -> sent.
const (
	ResponseDraft = "draft"
	ResponseSent  = "sent"
)

// Response is a drafted or sent reply to an inquiry. One inquiry may
// accumulate several responses over successive edits.
type Response struct {
	ID           string     `json:"id"`
	InquiryID    string     `json:"inquiryId"`
	Content      string     `json:"content"`
	Language     string     `json:"language"`
	Tone         string     `json:"tone"`
	Status       string     `json:"status"`
	ResponseTime int64      `json:"responseTime"` // generation latency in milliseconds
	GeneratedAt  time.Time  `json:"generatedAt"`
	SentAt       *time.Time `json:"sentAt,omitempty"`
}
