package comm

import "time"

// Template is a reusable response skeleton keyed by inquiry type.
// UsageCount only ever grows.
type Template struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Type       InquiryType `json:"type"`
	Content    string      `json:"content"`
	Language   string      `json:"language"`
	UsageCount int         `json:"usageCount"`
	UserID     string      `json:"userId"`
	CreatedAt  time.Time   `json:"createdAt"`
}
