package inquiry

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jferrall/teachbridge/backend/internal/model/comm"
	"github.com/jferrall/teachbridge/backend/internal/service/ai"
	"github.com/jferrall/teachbridge/backend/internal/store"
)

// stubAssistant returns canned values and records the last request.
type stubAssistant struct {
	result      ai.GenerateResult
	translated  string
	detected    string
	lastRequest ai.GenerateRequest
}

func (s *stubAssistant) GenerateResponse(_ context.Context, req ai.GenerateRequest) ai.GenerateResult {
	s.lastRequest = req
	return s.result
}

func (s *stubAssistant) TranslateText(_ context.Context, text, _ string) string {
	if s.translated == "" {
		return text
	}
	return s.translated
}

func (s *stubAssistant) DetectLanguage(context.Context, string) string {
	if s.detected == "" {
		return "en"
	}
	return s.detected
}

// recordingPublisher captures everything published to the live feed.
type recordingPublisher struct {
	published []comm.Activity
}

func (p *recordingPublisher) Publish(activity comm.Activity) {
	p.published = append(p.published, activity)
}

type fixture struct {
	svc       *Service
	store     *store.MemoryStore
	assistant *stubAssistant
	publisher *recordingPublisher
	user      comm.User
}

func newFixture(t *testing.T, assistant *stubAssistant) *fixture {
	t.Helper()
	st := store.NewMemoryStore()
	user, err := store.Seed(context.Background(), st)
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	return &fixture{
		svc:       NewService(st, assistant, publisher, zap.NewNop()),
		store:     st,
		assistant: assistant,
		publisher: publisher,
		user:      user,
	}
}

func (f *fixture) activities(t *testing.T, typ comm.ActivityType) []comm.Activity {
	t.Helper()
	all, err := f.store.ListActivitiesByUser(context.Background(), f.user.ID, 100)
	require.NoError(t, err)

	matched := make([]comm.Activity, 0)
	for _, activity := range all {
		if activity.Type == typ {
			matched = append(matched, activity)
		}
	}
	return matched
}

func (f *fixture) submit(t *testing.T, content string) comm.Inquiry {
	t.Helper()
	inquiry, err := f.svc.Submit(context.Background(), f.user.ID, SubmitInput{
		Type:     comm.InquiryGradeInquiry,
		Content:  content,
		Language: "en",
	})
	require.NoError(t, err)
	return inquiry
}

func TestSubmitLogsActivity(t *testing.T) {
	f := newFixture(t, &stubAssistant{})

	inquiry := f.submit(t, "Why did my daughter receive a B- this term?")
	assert.Equal(t, comm.InquiryGradeInquiry, inquiry.Type)

	created := f.activities(t, comm.ActivityInquiryCreated)
	require.Len(t, created, 1)
	assert.Equal(t, "New grade_inquiry inquiry received", created[0].Description)
	assert.Len(t, f.publisher.published, 1)
}

func TestSubmitContentLengthBoundary(t *testing.T) {
	f := newFixture(t, &stubAssistant{})
	ctx := context.Background()

	// Nine characters, rejected.
	_, err := f.svc.Submit(ctx, f.user.ID, SubmitInput{
		Type:     comm.InquiryGeneralQuestion,
		Content:  "123456789",
		Language: "en",
	})
	assert.ErrorIs(t, err, store.ErrInvalid)
	assert.ErrorIs(t, err, ErrContentTooShort)

	// Ten characters, accepted.
	_, err = f.svc.Submit(ctx, f.user.ID, SubmitInput{
		Type:     comm.InquiryGeneralQuestion,
		Content:  "1234567890",
		Language: "en",
	})
	assert.NoError(t, err)

	// Whitespace padding does not count toward the minimum.
	_, err = f.svc.Submit(ctx, f.user.ID, SubmitInput{
		Type:     comm.InquiryGeneralQuestion,
		Content:  "   short   ",
		Language: "en",
	})
	assert.ErrorIs(t, err, ErrContentTooShort)

	assert.Len(t, f.activities(t, comm.ActivityInquiryCreated), 1)
}

func TestGenerateResponsePersistsDraft(t *testing.T) {
	assistant := &stubAssistant{result: ai.GenerateResult{
		Response:         "Dear Parent, here is the grade breakdown.",
		DetectedLanguage: "es",
		ResponseTime:     1500,
	}}
	f := newFixture(t, assistant)

	inquiry := f.submit(t, "¿Por qué mi hijo recibió esta calificación?")

	outcome, err := f.svc.GenerateResponse(context.Background(), f.user.ID, inquiry.ID, GenerateOptions{})
	require.NoError(t, err)

	assert.Equal(t, comm.ResponseDraft, outcome.Response.Status)
	assert.Equal(t, "Dear Parent, here is the grade breakdown.", outcome.Response.Content)
	assert.EqualValues(t, 1500, outcome.Response.ResponseTime)
	assert.Equal(t, "es", outcome.DetectedLanguage)

	// Defaults flow into the assistant request.
	assert.Equal(t, "en", assistant.lastRequest.TargetLanguage)
	assert.Equal(t, DefaultTeacherName, assistant.lastRequest.TeacherName)
	assert.Equal(t, DefaultTone, assistant.lastRequest.Tone)

	// Detected language is back-filled onto the inquiry.
	refreshed, err := f.store.GetInquiry(context.Background(), inquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, "es", refreshed.DetectedLanguage)

	generated := f.activities(t, comm.ActivityResponseGenerated)
	require.Len(t, generated, 1)
	assert.Equal(t, "AI response generated for grade_inquiry inquiry", generated[0].Description)
}

func TestGenerateResponseFallbackStillDrafts(t *testing.T) {
	assistant := &stubAssistant{result: ai.GenerateResult{
		Response:         ai.DraftFallback,
		DetectedLanguage: "en",
		ResponseTime:     42,
	}}
	f := newFixture(t, assistant)

	inquiry := f.submit(t, "My son needs help with the science project.")

	outcome, err := f.svc.GenerateResponse(context.Background(), f.user.ID, inquiry.ID, GenerateOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, outcome.Response.Content)
	assert.Equal(t, comm.ResponseDraft, outcome.Response.Status)
	assert.Len(t, f.activities(t, comm.ActivityResponseGenerated), 1)
}

func TestGenerateResponseUnknownInquiry(t *testing.T) {
	f := newFixture(t, &stubAssistant{})

	_, err := f.svc.GenerateResponse(context.Background(), f.user.ID, "missing", GenerateOptions{})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, f.activities(t, comm.ActivityResponseGenerated))
}

func TestGenerateResponseOptionsOverrideDefaults(t *testing.T) {
	assistant := &stubAssistant{result: ai.GenerateResult{Response: "draft", DetectedLanguage: "en"}}
	f := newFixture(t, assistant)

	inquiry := f.submit(t, "Could you explain the late policy?")

	outcome, err := f.svc.GenerateResponse(context.Background(), f.user.ID, inquiry.ID, GenerateOptions{
		TargetLanguage: "fr",
		TeacherName:    "Mr. Okafor",
		Subject:        "History",
		Tone:           "friendly",
	})
	require.NoError(t, err)
	assert.Equal(t, "fr", outcome.Response.Language)
	assert.Equal(t, "friendly", outcome.Response.Tone)
	assert.Equal(t, "Mr. Okafor", assistant.lastRequest.TeacherName)
	assert.Equal(t, "History", assistant.lastRequest.Subject)
}

func TestSendResponseOnce(t *testing.T) {
	assistant := &stubAssistant{result: ai.GenerateResult{Response: "draft", DetectedLanguage: "en"}}
	f := newFixture(t, assistant)

	inquiry := f.submit(t, "When does the semester end this year?")
	outcome, err := f.svc.GenerateResponse(context.Background(), f.user.ID, inquiry.ID, GenerateOptions{})
	require.NoError(t, err)

	sent, err := f.svc.SendResponse(context.Background(), f.user.ID, outcome.Response.ID)
	require.NoError(t, err)
	assert.Equal(t, comm.ResponseSent, sent.Status)
	require.NotNil(t, sent.SentAt)

	_, err = f.svc.SendResponse(context.Background(), f.user.ID, outcome.Response.ID)
	assert.ErrorIs(t, err, ErrAlreadySent)

	sentActivities := f.activities(t, comm.ActivityResponseSent)
	require.Len(t, sentActivities, 1)
	assert.Equal(t, "Response sent to parent/student", sentActivities[0].Description)
}

func TestEditResponseRejectsSent(t *testing.T) {
	assistant := &stubAssistant{result: ai.GenerateResult{Response: "draft", DetectedLanguage: "en"}}
	f := newFixture(t, assistant)

	inquiry := f.submit(t, "Is the homework portal down again today?")
	outcome, err := f.svc.GenerateResponse(context.Background(), f.user.ID, inquiry.ID, GenerateOptions{})
	require.NoError(t, err)

	edited := "Dear Parent, the portal is back up."
	updated, err := f.svc.EditResponse(context.Background(), outcome.Response.ID, EditInput{Content: &edited})
	require.NoError(t, err)
	assert.Equal(t, edited, updated.Content)

	_, err = f.svc.SendResponse(context.Background(), f.user.ID, outcome.Response.ID)
	require.NoError(t, err)

	_, err = f.svc.EditResponse(context.Background(), outcome.Response.ID, EditInput{Content: &edited})
	assert.ErrorIs(t, err, ErrAlreadySent)
}

func TestTranslateResponse(t *testing.T) {
	assistant := &stubAssistant{
		result:     ai.GenerateResult{Response: "Dear Parent, thank you.", DetectedLanguage: "en"},
		translated: "Estimado padre, gracias.",
	}
	f := newFixture(t, assistant)

	inquiry := f.submit(t, "Gracias por la reunión de ayer, profesora.")
	outcome, err := f.svc.GenerateResponse(context.Background(), f.user.ID, inquiry.ID, GenerateOptions{})
	require.NoError(t, err)

	translated, err := f.svc.TranslateResponse(context.Background(), f.user.ID, outcome.Response.ID, "es")
	require.NoError(t, err)
	assert.Equal(t, "Estimado padre, gracias.", translated.Content)
	assert.Equal(t, "es", translated.Language)
	assert.Equal(t, comm.ResponseDraft, translated.Status)

	translations := f.activities(t, comm.ActivityTextTranslated)
	require.Len(t, translations, 1)
	assert.Equal(t, "Text translated to es", translations[0].Description)

	_, err = f.svc.SendResponse(context.Background(), f.user.ID, outcome.Response.ID)
	require.NoError(t, err)
	_, err = f.svc.TranslateResponse(context.Background(), f.user.ID, outcome.Response.ID, "fr")
	assert.ErrorIs(t, err, ErrAlreadySent)
}

func TestTranslateFreeText(t *testing.T) {
	f := newFixture(t, &stubAssistant{translated: "Bonjour"})

	translated, err := f.svc.Translate(context.Background(), f.user.ID, "Hello", "fr")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", translated)
	assert.Len(t, f.activities(t, comm.ActivityTextTranslated), 1)
}

func TestDetectLanguageDelegates(t *testing.T) {
	f := newFixture(t, &stubAssistant{detected: "de"})
	assert.Equal(t, "de", f.svc.DetectLanguage(context.Background(), "Guten Tag"))
}

func TestCreateTemplateLogsActivity(t *testing.T) {
	f := newFixture(t, &stubAssistant{})

	template, err := f.svc.CreateTemplate(context.Background(), f.user.ID, TemplateInput{
		Name:     "Late Work Policy",
		Type:     comm.InquiryGeneralQuestion,
		Content:  "Dear Parent,\n\nOur late work policy is...\n\nBest regards,\n[Teacher Name]",
		Language: "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "Late Work Policy", template.Name)

	created := f.activities(t, comm.ActivityTemplateCreated)
	require.Len(t, created, 1)
	assert.Equal(t, `New template "Late Work Policy" created`, created[0].Description)
}

func TestUseTemplateIncrementsPerUse(t *testing.T) {
	f := newFixture(t, &stubAssistant{})
	ctx := context.Background()

	templates, err := f.svc.Templates(ctx, f.user.ID, "")
	require.NoError(t, err)
	require.NotEmpty(t, templates)
	target := templates[0]

	const uses = 3
	for i := 0; i < uses; i++ {
		_, err := f.svc.UseTemplate(ctx, f.user.ID, target.ID)
		require.NoError(t, err)
	}

	refreshed, err := f.store.GetTemplate(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.UsageCount+uses, refreshed.UsageCount)

	used := f.activities(t, comm.ActivityTemplateUsed)
	require.Len(t, used, uses)
	assert.True(t, strings.HasPrefix(used[0].Description, "Template "))
}

func TestUseTemplateUnknownID(t *testing.T) {
	f := newFixture(t, &stubAssistant{})

	_, err := f.svc.UseTemplate(context.Background(), f.user.ID, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, f.activities(t, comm.ActivityTemplateUsed))
}

func TestTemplatesFilterByType(t *testing.T) {
	f := newFixture(t, &stubAssistant{})

	filtered, err := f.svc.Templates(context.Background(), f.user.ID, comm.InquiryAssignmentHelp)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Assignment Help", filtered[0].Name)
}

func TestRecentResponsesJoinInquiry(t *testing.T) {
	assistant := &stubAssistant{result: ai.GenerateResult{Response: "draft", DetectedLanguage: "en"}}
	f := newFixture(t, assistant)

	first := f.submit(t, "First question about the reading list.")
	second := f.submit(t, "Second question about the reading list.")

	for _, inquiry := range []comm.Inquiry{first, second} {
		_, err := f.svc.GenerateResponse(context.Background(), f.user.ID, inquiry.ID, GenerateOptions{})
		require.NoError(t, err)
	}

	joined, err := f.svc.RecentResponses(context.Background(), f.user.ID, 10)
	require.NoError(t, err)
	require.Len(t, joined, 2)
	for _, entry := range joined {
		assert.Equal(t, entry.InquiryID, entry.Inquiry.ID)
		assert.NotEmpty(t, entry.Inquiry.Content)
	}
}
