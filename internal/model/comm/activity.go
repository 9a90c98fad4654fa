package comm

import "time"

// ActivityType tags entries in the append-only activity feed.
type ActivityType string

const (
	ActivityInquiryCreated    ActivityType = "inquiry_created"
	ActivityResponseGenerated ActivityType = "response_generated"
	ActivityResponseSent      ActivityType = "response_sent"
	ActivityTemplateCreated   ActivityType = "template_created"
	ActivityTemplateUsed      ActivityType = "template_used"
	ActivityTextTranslated    ActivityType = "text_translated"
)

// Activity is an audit entry describing a user action. Activities are never
// updated or deleted.
type Activity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	UserID      string       `json:"userId"`
	CreatedAt   time.Time    `json:"createdAt"`
}
