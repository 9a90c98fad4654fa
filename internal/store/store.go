package store

import (
	"context"
	"errors"
	"time"

	"github.com/jferrall/teachbridge/backend/internal/model/comm"
)

var (
	// ErrNotFound is returned when a referenced id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalid is returned when a create is missing required fields.
	ErrInvalid = errors.New("invalid record")
)

// NewUser carries the fields required to create a user.
type NewUser struct {
	Username string
	Password string
}

// NewInquiry carries the fields required to create an inquiry.
type NewInquiry struct {
	Type             comm.InquiryType
	Content          string
	Language         string
	DetectedLanguage string
	UserID           string
}

// NewResponse carries the fields required to create a draft response.
type NewResponse struct {
	InquiryID    string
	Content      string
	Language     string
	Tone         string
	ResponseTime int64
}

// NewTemplate carries the fields required to create a template.
type NewTemplate struct {
	Name     string
	Type     comm.InquiryType
	Content  string
	Language string
	UserID   string
}

// NewActivity carries the fields required to append an activity entry.
type NewActivity struct {
	Type        comm.ActivityType
	Description string
	UserID      string
}

// InquiryPatch describes a partial inquiry update. Nil fields are left
// untouched. Only the detected-language back-fill is mutable.
type InquiryPatch struct {
	DetectedLanguage *string
}

// ResponsePatch describes a partial response update. Nil fields are left
// untouched.
type ResponsePatch struct {
	Content  *string
	Language *string
	Tone     *string
	Status   *string
	SentAt   *time.Time
}

// Store is the record store behind the inquiry workflow. The in-memory and
// sqlite implementations are interchangeable; callers must not rely on
// list ordering beyond what each method documents.
type Store interface {
	// Users
	CreateUser(ctx context.Context, in NewUser) (comm.User, error)
	GetUser(ctx context.Context, id string) (comm.User, error)
	GetUserByUsername(ctx context.Context, username string) (comm.User, error)

	// Inquiries
	CreateInquiry(ctx context.Context, in NewInquiry) (comm.Inquiry, error)
	GetInquiry(ctx context.Context, id string) (comm.Inquiry, error)
	ListInquiriesByUser(ctx context.Context, userID string) ([]comm.Inquiry, error)
	UpdateInquiry(ctx context.Context, id string, patch InquiryPatch) (comm.Inquiry, error)

	// Responses
	CreateResponse(ctx context.Context, in NewResponse) (comm.Response, error)
	GetResponse(ctx context.Context, id string) (comm.Response, error)
	UpdateResponse(ctx context.Context, id string, patch ResponsePatch) (comm.Response, error)
	ListResponsesByInquiry(ctx context.Context, inquiryID string) ([]comm.Response, error)
	ListResponsesByUser(ctx context.Context, userID string) ([]comm.Response, error)
	// RecentResponses returns responses to the user's inquiries ordered by
	// generatedAt descending, id descending on equal timestamps.
	RecentResponses(ctx context.Context, userID string, limit int) ([]comm.Response, error)

	// Templates
	CreateTemplate(ctx context.Context, in NewTemplate) (comm.Template, error)
	GetTemplate(ctx context.Context, id string) (comm.Template, error)
	ListTemplatesByUser(ctx context.Context, userID string) ([]comm.Template, error)
	ListTemplatesByType(ctx context.Context, userID string, typ comm.InquiryType) ([]comm.Template, error)
	// IncrementTemplateUsage bumps usageCount by one and returns ErrNotFound
	// for an unknown id.
	IncrementTemplateUsage(ctx context.Context, id string) (comm.Template, error)

	// Activities
	AppendActivity(ctx context.Context, in NewActivity) (comm.Activity, error)
	// ListActivitiesByUser returns the newest activities first, truncated to
	// limit.
	ListActivitiesByUser(ctx context.Context, userID string, limit int) ([]comm.Activity, error)
}
