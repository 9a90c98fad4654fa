package ai

import (
	"fmt"
	"strings"
)

// DraftFallback is returned whenever the provider cannot produce a draft.
// The teacher can still edit and send it manually.
const DraftFallback = "I apologize, but I'm currently unable to generate an automated response. " +
	"Please compose your response manually or try again later."

// draftRetryNotice covers the narrower case where the provider answered but
// the structured payload had no response text.
const draftRetryNotice = "I apologize, but I'm having trouble generating a response right now. Please try again."

// DefaultLanguage is assumed whenever detection fails or returns something
// outside the supported set.
const DefaultLanguage = "en"

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"zh": "Chinese",
}

// SupportedLanguage reports whether code is one of the languages the
// product supports.
func SupportedLanguage(code string) bool {
	_, ok := languageNames[code]
	return ok
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return languageNames[DefaultLanguage]
}

func buildDraftSystemPrompt(req GenerateRequest) string {
	teacher := strings.TrimSpace(req.TeacherName)
	if teacher == "" {
		teacher = "the teacher"
	}
	signature := strings.TrimSpace(req.TeacherName)
	if signature == "" {
		signature = "[Teacher Name]"
	}
	tone := strings.TrimSpace(req.Tone)
	if tone == "" {
		tone = "warm"
	}

	return fmt.Sprintf(`You are an experienced and professional teacher responding to a parent or student inquiry.

Context:
- Inquiry Type: %s
- Teacher Name: %s
- Subject: %s

Instructions:
1. Generate a professional, helpful, and empathetic response to the following inquiry
2. Keep the tone %s but professional
3. Provide specific guidance when possible
4. Always offer additional support if needed
5. Sign with "Best regards, %s"
6. Respond in %s
7. Detect the language of the original inquiry

Provide your response in JSON format with:
{
  "response": "your generated response",
  "detectedLanguage": "language code (en/es/fr/de/zh)"
}`,
		req.InquiryType, teacher, req.Subject, tone, signature, languageName(req.TargetLanguage))
}

func buildDraftQuery(inquiryText string) string {
	return fmt.Sprintf("Original Inquiry: %q", inquiryText)
}

func buildTranslateQuery(text, targetLanguage string) string {
	return fmt.Sprintf(`You are a professional translator. Translate the following text to %s while maintaining the professional tone and educational context. Preserve formatting and structure.

Text to translate: %s`, languageName(targetLanguage), text)
}

func buildDetectQuery(text string) string {
	return fmt.Sprintf(`Detect the language of the given text and respond with only the language code: en (English), es (Spanish), fr (French), de (German), or zh (Chinese). If uncertain, default to 'en'.

Text: %s`, text)
}
