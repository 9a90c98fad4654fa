package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeChatModel replays a scripted reply (or error) and records the
// messages the chain handed it.
type fakeChatModel struct {
	reply string
	err   error
	input []*schema.Message
}

var _ model.ChatModel = (*fakeChatModel)(nil)

func (m *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.input = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not scripted")
}

func (m *fakeChatModel) BindTools([]*schema.ToolInfo) error {
	return nil
}

func newTestService(t *testing.T, fake *fakeChatModel) *Service {
	t.Helper()
	svc, err := NewWithModel(context.Background(), fake, 5*time.Second, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestGenerateResponseSuccess(t *testing.T) {
	fake := &fakeChatModel{
		reply: "```json\n{\"response\": \"Dear Parent,\\n\\nHappy to explain the grade.\\n\\nBest regards, Ms. Johnson\", \"detectedLanguage\": \"es\"}\n```",
	}
	svc := newTestService(t, fake)

	result := svc.GenerateResponse(context.Background(), GenerateRequest{
		InquiryText:    "¿Por qué mi hija recibió esta calificación?",
		InquiryType:    "grade_inquiry",
		TargetLanguage: "en",
		TeacherName:    "Ms. Johnson",
		Subject:        "Mathematics",
		Tone:           "professional",
	})

	assert.Contains(t, result.Response, "Happy to explain the grade")
	assert.Equal(t, "es", result.DetectedLanguage)
	assert.GreaterOrEqual(t, result.ResponseTime, int64(0))

	require.Len(t, fake.input, 2)
	assert.Equal(t, schema.System, fake.input[0].Role)
	assert.Contains(t, fake.input[0].Content, "Inquiry Type: grade_inquiry")
	assert.Contains(t, fake.input[0].Content, "Ms. Johnson")
	assert.Equal(t, schema.User, fake.input[1].Role)
	assert.Contains(t, fake.input[1].Content, "Original Inquiry:")
}

func TestGenerateResponseProviderErrorFallsBack(t *testing.T) {
	svc := newTestService(t, &fakeChatModel{err: errors.New("provider unavailable")})

	result := svc.GenerateResponse(context.Background(), GenerateRequest{
		InquiryText: "My child is struggling with the homework.",
		InquiryType: "assignment_help",
	})

	assert.Equal(t, DraftFallback, result.Response)
	assert.Equal(t, DefaultLanguage, result.DetectedLanguage)
	assert.GreaterOrEqual(t, result.ResponseTime, int64(0))
}

func TestGenerateResponseMalformedOutputFallsBack(t *testing.T) {
	svc := newTestService(t, &fakeChatModel{reply: "Sure! Here is my answer with no structure."})

	result := svc.GenerateResponse(context.Background(), GenerateRequest{
		InquiryText: "When is the recital?",
		InquiryType: "schedule_question",
	})

	assert.Equal(t, DraftFallback, result.Response)
	assert.Equal(t, DefaultLanguage, result.DetectedLanguage)
}

func TestGenerateResponseUnsupportedLanguageDefaults(t *testing.T) {
	svc := newTestService(t, &fakeChatModel{
		reply: `{"response": "Dear Parent, noted.", "detectedLanguage": "tlh"}`,
	})

	result := svc.GenerateResponse(context.Background(), GenerateRequest{
		InquiryText: "nuqDaq 'oH puchpa''e'?",
		InquiryType: "general_question",
	})

	assert.Equal(t, "Dear Parent, noted.", result.Response)
	assert.Equal(t, DefaultLanguage, result.DetectedLanguage)
}

func TestGenerateResponseEmptyDraftGetsRetryNotice(t *testing.T) {
	svc := newTestService(t, &fakeChatModel{
		reply: `{"response": "", "detectedLanguage": "en"}`,
	})

	result := svc.GenerateResponse(context.Background(), GenerateRequest{
		InquiryText: "Is there a field trip form?",
		InquiryType: "general_question",
	})

	assert.Equal(t, draftRetryNotice, result.Response)
}

func TestTranslateText(t *testing.T) {
	fake := &fakeChatModel{reply: "Estimado padre, gracias por su mensaje."}
	svc := newTestService(t, fake)

	translated := svc.TranslateText(context.Background(), "Dear Parent, thank you for your message.", "es")
	assert.Equal(t, "Estimado padre, gracias por su mensaje.", translated)

	require.Len(t, fake.input, 1)
	assert.Contains(t, fake.input[0].Content, "Translate the following text to Spanish")
}

func TestTranslateTextErrorReturnsOriginal(t *testing.T) {
	svc := newTestService(t, &fakeChatModel{err: errors.New("timeout")})

	original := "Dear Parent, thank you for your message."
	assert.Equal(t, original, svc.TranslateText(context.Background(), original, "fr"))
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeChatModel
		want string
	}{
		{name: "normalizes case and whitespace", fake: &fakeChatModel{reply: " ES \n"}, want: "es"},
		{name: "unsupported code defaults", fake: &fakeChatModel{reply: "tlh"}, want: "en"},
		{name: "provider error defaults", fake: &fakeChatModel{err: errors.New("down")}, want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.fake)
			assert.Equal(t, tt.want, svc.DetectLanguage(context.Background(), "hola profesora"))
		})
	}
}

func TestDisabledService(t *testing.T) {
	svc := NewDisabled(zap.NewNop())
	assert.False(t, svc.Enabled())

	result := svc.GenerateResponse(context.Background(), GenerateRequest{InquiryText: "anything"})
	assert.Equal(t, DraftFallback, result.Response)
	assert.Equal(t, DefaultLanguage, result.DetectedLanguage)

	assert.Equal(t, "unchanged", svc.TranslateText(context.Background(), "unchanged", "de"))
	assert.Equal(t, DefaultLanguage, svc.DetectLanguage(context.Background(), "bonjour"))
}

func TestParseDraftOutput(t *testing.T) {
	payload, err := parseDraftOutput("Here you go:\n```json\n{\"response\": \"hi\", \"detectedLanguage\": \"fr\"}\n```\nDone.")
	require.NoError(t, err)
	assert.Equal(t, "hi", payload.Response)
	assert.Equal(t, "fr", payload.DetectedLanguage)

	_, err = parseDraftOutput("no object here")
	assert.Error(t, err)

	_, err = parseDraftOutput("{not valid json}")
	assert.Error(t, err)
}
