package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jferrall/teachbridge/backend/internal/model/comm"
	"github.com/jferrall/teachbridge/backend/internal/service/ai"
	"github.com/jferrall/teachbridge/backend/internal/store"
)

// MinContentLength is the minimum inquiry content length in characters.
const MinContentLength = 10

// DefaultTeacherName signs drafts when the caller does not supply a name.
const DefaultTeacherName = "Ms. Johnson"

// DefaultTone is applied to drafts when the caller does not pick one.
const DefaultTone = "professional"

var (
	ErrContentTooShort = fmt.Errorf("inquiry content must be at least %d characters", MinContentLength)
	ErrAlreadySent     = errors.New("response already sent")
)

// Assistant is the AI capability the workflow depends on. Implementations
// absorb provider failures and always return usable values.
type Assistant interface {
	GenerateResponse(ctx context.Context, req ai.GenerateRequest) ai.GenerateResult
	TranslateText(ctx context.Context, text, targetLanguage string) string
	DetectLanguage(ctx context.Context, text string) string
}

// Publisher receives every appended activity, e.g. for a live feed. May be
// nil.
type Publisher interface {
	Publish(activity comm.Activity)
}

// Service orchestrates the inquiry lifecycle: intake, draft generation,
// response transitions, template usage, and the activity log.
type Service struct {
	store     store.Store
	assistant Assistant
	publisher Publisher
	logger    *zap.Logger
}

// NewService wires the workflow. publisher may be nil.
func NewService(st store.Store, assistant Assistant, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{
		store:     st,
		assistant: assistant,
		publisher: publisher,
		logger:    logger,
	}
}

// SubmitInput is a new inquiry as received from the client.
type SubmitInput struct {
	Type             comm.InquiryType
	Content          string
	Language         string
	DetectedLanguage string
}

// Submit validates and persists an inquiry and logs "inquiry_created".
func (s *Service) Submit(ctx context.Context, userID string, in SubmitInput) (comm.Inquiry, error) {
	if utf8.RuneCountInString(strings.TrimSpace(in.Content)) < MinContentLength {
		return comm.Inquiry{}, fmt.Errorf("%w: %w", store.ErrInvalid, ErrContentTooShort)
	}

	inquiry, err := s.store.CreateInquiry(ctx, store.NewInquiry{
		Type:             in.Type,
		Content:          in.Content,
		Language:         in.Language,
		DetectedLanguage: in.DetectedLanguage,
		UserID:           userID,
	})
	if err != nil {
		return comm.Inquiry{}, err
	}

	if err := s.logActivity(ctx, userID, comm.ActivityInquiryCreated,
		fmt.Sprintf("New %s inquiry received", inquiry.Type)); err != nil {
		return comm.Inquiry{}, err
	}
	return inquiry, nil
}

// GenerateOptions tune draft generation. Zero values fall back to the
// inquiry's language, the default teacher name, and the default tone.
type GenerateOptions struct {
	TargetLanguage string
	TeacherName    string
	Subject        string
	Tone           string
}

// GenerateOutcome bundles the draft with the detected inquiry language.
type GenerateOutcome struct {
	Response         comm.Response
	DetectedLanguage string
}

// GenerateResponse drafts a reply for an existing inquiry. The draft is
// persisted with status draft even when the assistant fell back, and
// "response_generated" is logged. The inquiry's detected language is
// back-filled on first generation.
func (s *Service) GenerateResponse(ctx context.Context, userID, inquiryID string, opts GenerateOptions) (GenerateOutcome, error) {
	inquiry, err := s.store.GetInquiry(ctx, inquiryID)
	if err != nil {
		return GenerateOutcome{}, err
	}

	targetLanguage := opts.TargetLanguage
	if targetLanguage == "" {
		targetLanguage = inquiry.Language
	}
	teacherName := opts.TeacherName
	if teacherName == "" {
		teacherName = DefaultTeacherName
	}
	tone := opts.Tone
	if tone == "" {
		tone = DefaultTone
	}

	result := s.assistant.GenerateResponse(ctx, ai.GenerateRequest{
		InquiryText:    inquiry.Content,
		InquiryType:    string(inquiry.Type),
		TargetLanguage: targetLanguage,
		TeacherName:    teacherName,
		Subject:        opts.Subject,
		Tone:           tone,
	})

	response, err := s.store.CreateResponse(ctx, store.NewResponse{
		InquiryID:    inquiry.ID,
		Content:      result.Response,
		Language:     targetLanguage,
		Tone:         tone,
		ResponseTime: result.ResponseTime,
	})
	if err != nil {
		return GenerateOutcome{}, err
	}

	if err := s.logActivity(ctx, userID, comm.ActivityResponseGenerated,
		fmt.Sprintf("AI response generated for %s inquiry", inquiry.Type)); err != nil {
		return GenerateOutcome{}, err
	}

	if inquiry.DetectedLanguage == "" && result.DetectedLanguage != "" {
		detected := result.DetectedLanguage
		if _, err := s.store.UpdateInquiry(ctx, inquiry.ID, store.InquiryPatch{DetectedLanguage: &detected}); err != nil {
			// The draft exists either way; the back-fill is best effort.
			s.logger.Warn("failed to back-fill detected language",
				zap.String("inquiry", inquiry.ID), zap.Error(err))
		}
	}

	return GenerateOutcome{Response: response, DetectedLanguage: result.DetectedLanguage}, nil
}

// EditInput is a partial response edit. Nil fields are left untouched.
type EditInput struct {
	Content  *string
	Language *string
	Tone     *string
}

// EditResponse updates a draft in place. Sent responses are immutable.
func (s *Service) EditResponse(ctx context.Context, responseID string, in EditInput) (comm.Response, error) {
	response, err := s.store.GetResponse(ctx, responseID)
	if err != nil {
		return comm.Response{}, err
	}
	if response.Status == comm.ResponseSent {
		return comm.Response{}, ErrAlreadySent
	}

	return s.store.UpdateResponse(ctx, responseID, store.ResponsePatch{
		Content:  in.Content,
		Language: in.Language,
		Tone:     in.Tone,
	})
}

// TranslateResponse regenerates a draft's content in the target language
// via the assistant and logs "text_translated". Status stays draft.
func (s *Service) TranslateResponse(ctx context.Context, userID, responseID, targetLanguage string) (comm.Response, error) {
	response, err := s.store.GetResponse(ctx, responseID)
	if err != nil {
		return comm.Response{}, err
	}
	if response.Status == comm.ResponseSent {
		return comm.Response{}, ErrAlreadySent
	}

	translated := s.assistant.TranslateText(ctx, response.Content, targetLanguage)

	updated, err := s.store.UpdateResponse(ctx, responseID, store.ResponsePatch{
		Content:  &translated,
		Language: &targetLanguage,
	})
	if err != nil {
		return comm.Response{}, err
	}

	if err := s.logActivity(ctx, userID, comm.ActivityTextTranslated,
		fmt.Sprintf("Text translated to %s", targetLanguage)); err != nil {
		return comm.Response{}, err
	}
	return updated, nil
}

// SendResponse performs the one-way draft -> sent transition, stamps
// sentAt, and logs "response_sent". A second send is rejected.
func (s *Service) SendResponse(ctx context.Context, userID, responseID string) (comm.Response, error) {
	response, err := s.store.GetResponse(ctx, responseID)
	if err != nil {
		return comm.Response{}, err
	}
	if response.Status == comm.ResponseSent {
		return comm.Response{}, ErrAlreadySent
	}

	now := time.Now().UTC()
	status := comm.ResponseSent
	updated, err := s.store.UpdateResponse(ctx, responseID, store.ResponsePatch{
		Status: &status,
		SentAt: &now,
	})
	if err != nil {
		return comm.Response{}, err
	}

	if err := s.logActivity(ctx, userID, comm.ActivityResponseSent,
		"Response sent to parent/student"); err != nil {
		return comm.Response{}, err
	}
	return updated, nil
}

// Translate runs free text through the assistant and logs
// "text_translated". Provider failure yields the original text.
func (s *Service) Translate(ctx context.Context, userID, text, targetLanguage string) (string, error) {
	translated := s.assistant.TranslateText(ctx, text, targetLanguage)

	if err := s.logActivity(ctx, userID, comm.ActivityTextTranslated,
		fmt.Sprintf("Text translated to %s", targetLanguage)); err != nil {
		return "", err
	}
	return translated, nil
}

// DetectLanguage identifies the language of free text.
func (s *Service) DetectLanguage(ctx context.Context, text string) string {
	return s.assistant.DetectLanguage(ctx, text)
}

// TemplateInput is a new template as received from the client.
type TemplateInput struct {
	Name     string
	Type     comm.InquiryType
	Content  string
	Language string
}

// CreateTemplate persists a template and logs "template_created".
func (s *Service) CreateTemplate(ctx context.Context, userID string, in TemplateInput) (comm.Template, error) {
	template, err := s.store.CreateTemplate(ctx, store.NewTemplate{
		Name:     in.Name,
		Type:     in.Type,
		Content:  in.Content,
		Language: in.Language,
		UserID:   userID,
	})
	if err != nil {
		return comm.Template{}, err
	}

	if err := s.logActivity(ctx, userID, comm.ActivityTemplateCreated,
		fmt.Sprintf("New template %q created", template.Name)); err != nil {
		return comm.Template{}, err
	}
	return template, nil
}

// UseTemplate bumps the template's usage count and logs "template_used".
// Unknown ids surface as not-found rather than being ignored.
func (s *Service) UseTemplate(ctx context.Context, userID, templateID string) (comm.Template, error) {
	template, err := s.store.IncrementTemplateUsage(ctx, templateID)
	if err != nil {
		return comm.Template{}, err
	}

	if err := s.logActivity(ctx, userID, comm.ActivityTemplateUsed,
		fmt.Sprintf("Template %q used", template.Name)); err != nil {
		return comm.Template{}, err
	}
	return template, nil
}

// Templates lists the user's templates, optionally filtered by type.
func (s *Service) Templates(ctx context.Context, userID string, typ comm.InquiryType) ([]comm.Template, error) {
	if typ != "" {
		return s.store.ListTemplatesByType(ctx, userID, typ)
	}
	return s.store.ListTemplatesByUser(ctx, userID)
}

// ResponseWithInquiry pairs a response with the inquiry it answers, for
// list views.
type ResponseWithInquiry struct {
	comm.Response
	Inquiry comm.Inquiry `json:"inquiry"`
}

// RecentResponses returns the newest responses joined with their inquiry.
func (s *Service) RecentResponses(ctx context.Context, userID string, limit int) ([]ResponseWithInquiry, error) {
	responses, err := s.store.RecentResponses(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	joined := make([]ResponseWithInquiry, 0, len(responses))
	for _, response := range responses {
		inquiry, err := s.store.GetInquiry(ctx, response.InquiryID)
		if err != nil {
			return nil, fmt.Errorf("response %s references missing inquiry: %w", response.ID, err)
		}
		joined = append(joined, ResponseWithInquiry{Response: response, Inquiry: inquiry})
	}
	return joined, nil
}

// Activities returns the user's newest activity entries.
func (s *Service) Activities(ctx context.Context, userID string, limit int) ([]comm.Activity, error) {
	return s.store.ListActivitiesByUser(ctx, userID, limit)
}

func (s *Service) logActivity(ctx context.Context, userID string, typ comm.ActivityType, description string) error {
	activity, err := s.store.AppendActivity(ctx, store.NewActivity{
		Type:        typ,
		Description: description,
		UserID:      userID,
	})
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(activity)
	}
	return nil
}
