package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/jferrall/teachbridge/backend/internal/config"
)

// GenerateRequest carries everything the draft prompt needs.
type GenerateRequest struct {
	InquiryText    string
	InquiryType    string
	TargetLanguage string
	TeacherName    string
	Subject        string
	Tone           string
}

// GenerateResult is the adapter's answer. It is always usable: on provider
// failure Response holds the fixed fallback text.
type GenerateResult struct {
	Response         string
	DetectedLanguage string
	ResponseTime     int64 // elapsed milliseconds, measured regardless of outcome
}

// Service adapts the workflow's three intents (draft, translate, detect) to
// the generative-text provider. Provider failures are absorbed into
// degraded-but-valid results, never returned as errors.
type Service struct {
	chatModel  model.ChatModel
	structured compose.Runnable[map[string]any, *schema.Message]
	plain      compose.Runnable[map[string]any, *schema.Message]
	timeout    time.Duration
	logger     *zap.Logger
}

// NewService builds the adapter from configuration. Missing credentials
// yield a permanent-fallback service rather than an error so the workflow
// always has a drafter.
func NewService(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (*Service, error) {
	if !cfg.Enabled() {
		return NewDisabled(logger), nil
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	return NewWithModel(ctx, chatModel, time.Duration(cfg.TimeoutSeconds)*time.Second, logger)
}

// NewWithModel wires the chains around an existing chat model.
func NewWithModel(ctx context.Context, chatModel model.ChatModel, timeout time.Duration, logger *zap.Logger) (*Service, error) {
	structuredTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	structuredChain := compose.NewChain[map[string]any, *schema.Message]()
	structuredChain.AppendChatTemplate(structuredTemplate)
	structuredChain.AppendChatModel(chatModel)

	structured, err := structuredChain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile draft chain: %w", err)
	}

	plainTemplate := prompt.FromMessages(
		schema.FString,
		schema.UserMessage("{query}"),
	)

	plainChain := compose.NewChain[map[string]any, *schema.Message]()
	plainChain.AppendChatTemplate(plainTemplate)
	plainChain.AppendChatModel(chatModel)

	plain, err := plainChain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile plain chain: %w", err)
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Service{
		chatModel:  chatModel,
		structured: structured,
		plain:      plain,
		timeout:    timeout,
		logger:     logger,
	}, nil
}

// NewDisabled returns a service with no provider behind it; every call
// takes the fallback path immediately.
func NewDisabled(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// Enabled reports whether a provider is wired up.
func (s *Service) Enabled() bool {
	return s != nil && s.structured != nil
}

// GenerateResponse drafts a reply to the inquiry. Never returns an error:
// on any provider failure the result carries DraftFallback, language "en",
// and the elapsed time.
func (s *Service) GenerateResponse(ctx context.Context, req GenerateRequest) GenerateResult {
	start := time.Now()

	if !s.Enabled() {
		return s.fallbackResult(start, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msg, err := s.structured.Invoke(ctx, map[string]any{
		"system": buildDraftSystemPrompt(req),
		"query":  buildDraftQuery(req.InquiryText),
	})
	if err != nil {
		return s.fallbackResult(start, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return s.fallbackResult(start, fmt.Errorf("empty response from model"))
	}

	payload, err := parseDraftOutput(msg.Content)
	if err != nil {
		return s.fallbackResult(start, err)
	}

	response := strings.TrimSpace(payload.Response)
	if response == "" {
		response = draftRetryNotice
	}

	detected := strings.ToLower(strings.TrimSpace(payload.DetectedLanguage))
	if !SupportedLanguage(detected) {
		detected = DefaultLanguage
	}

	return GenerateResult{
		Response:         response,
		DetectedLanguage: detected,
		ResponseTime:     time.Since(start).Milliseconds(),
	}
}

// TranslateText translates text into the target language. On provider
// failure the original text comes back unchanged.
func (s *Service) TranslateText(ctx context.Context, text, targetLanguage string) string {
	if !s.Enabled() {
		return text
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msg, err := s.plain.Invoke(ctx, map[string]any{
		"query": buildTranslateQuery(text, targetLanguage),
	})
	if err != nil {
		s.logger.Warn("translation failed, returning original text", zap.Error(err))
		return text
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return text
	}
	return msg.Content
}

// DetectLanguage identifies the language of text, constrained to the
// supported set. Anything else (including provider failure) maps to "en".
func (s *Service) DetectLanguage(ctx context.Context, text string) string {
	if !s.Enabled() {
		return DefaultLanguage
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msg, err := s.plain.Invoke(ctx, map[string]any{
		"query": buildDetectQuery(text),
	})
	if err != nil {
		s.logger.Warn("language detection failed, defaulting to en", zap.Error(err))
		return DefaultLanguage
	}
	if msg == nil {
		return DefaultLanguage
	}

	detected := strings.ToLower(strings.TrimSpace(msg.Content))
	if !SupportedLanguage(detected) {
		return DefaultLanguage
	}
	return detected
}

func (s *Service) fallbackResult(start time.Time, err error) GenerateResult {
	if err != nil {
		s.logger.Warn("draft generation failed, using fallback", zap.Error(err))
	}
	return GenerateResult{
		Response:         DraftFallback,
		DetectedLanguage: DefaultLanguage,
		ResponseTime:     time.Since(start).Milliseconds(),
	}
}

type draftPayload struct {
	Response         string `json:"response"`
	DetectedLanguage string `json:"detectedLanguage"`
}

// parseDraftOutput extracts the JSON object from the model output, which
// may be wrapped in prose or code fences.
func parseDraftOutput(content string) (*draftPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object in model output")
	}

	payload := &draftPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}
