package comm

import "time"

// InquiryType classifies a submitted inquiry.
type InquiryType string

const (
	InquiryAssignmentHelp      InquiryType = "assignment_help"
	InquiryGradeInquiry        InquiryType = "grade_inquiry"
	InquiryScheduleQuestion    InquiryType = "schedule_question"
	InquiryParentCommunication InquiryType = "parent_communication"
	InquiryTechnicalSupport    InquiryType = "technical_support"
	InquiryGeneralQuestion     InquiryType = "general_question"
)

// InquiryTypes lists every accepted inquiry type.
var InquiryTypes = []InquiryType{
	InquiryAssignmentHelp,
	InquiryGradeInquiry,
	InquiryScheduleQuestion,
	InquiryParentCommunication,
	InquiryTechnicalSupport,
	InquiryGeneralQuestion,
}

// ValidInquiryType reports whether t is one of the accepted types.
func ValidInquiryType(t InquiryType) bool {
	for _, known := range InquiryTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Inquiry is a question submitted by a student or parent. Immutable after
// creation except for the detected-language back-fill.
type Inquiry struct {
	ID               string      `json:"id"`
	Type             InquiryType `json:"type"`
	Content          string      `json:"content"`
	Language         string      `json:"language"`
	DetectedLanguage string      `json:"detectedLanguage,omitempty"`
	UserID           string      `json:"userId"`
	CreatedAt        time.Time   `json:"createdAt"`
}
