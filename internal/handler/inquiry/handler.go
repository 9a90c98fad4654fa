package inquiry

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jferrall/teachbridge/backend/internal/handler/httperr"
	"github.com/jferrall/teachbridge/backend/internal/middleware"
	"github.com/jferrall/teachbridge/backend/internal/model/comm"
	inquiryservice "github.com/jferrall/teachbridge/backend/internal/service/inquiry"
	"github.com/jferrall/teachbridge/backend/pkg/utils"
	"github.com/jferrall/teachbridge/backend/pkg/validate"
)

// Handler serves inquiry intake and draft generation.
type Handler struct {
	svc *inquiryservice.Service
}

// New creates the inquiry handler.
func New(svc *inquiryservice.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the inquiry routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/inquiries", h.handleCreate)
	r.Post("/inquiries/{id}/generate-response", h.handleGenerateResponse)
}

type createRequest struct {
	Type             string `json:"type" validate:"required,oneof=assignment_help grade_inquiry schedule_question parent_communication technical_support general_question"`
	Content          string `json:"content" validate:"required,min=10"`
	Language         string `json:"language" validate:"required"`
	DetectedLanguage string `json:"detectedLanguage"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "no user in request")
		return
	}

	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	inquiry, err := h.svc.Submit(r.Context(), user.ID, inquiryservice.SubmitInput{
		Type:             comm.InquiryType(payload.Type),
		Content:          payload.Content,
		Language:         payload.Language,
		DetectedLanguage: payload.DetectedLanguage,
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, inquiry)
}

type generateRequest struct {
	TargetLanguage string `json:"targetLanguage"`
	TeacherName    string `json:"teacherName"`
	Subject        string `json:"subject"`
	Tone           string `json:"tone"`
}

func (h *Handler) handleGenerateResponse(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "no user in request")
		return
	}

	inquiryID := chi.URLParam(r, "id")

	var payload generateRequest
	if r.Body != nil {
		// The body is optional; every field has a default.
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	outcome, err := h.svc.GenerateResponse(r.Context(), user.ID, inquiryID, inquiryservice.GenerateOptions{
		TargetLanguage: payload.TargetLanguage,
		TeacherName:    payload.TeacherName,
		Subject:        payload.Subject,
		Tone:           payload.Tone,
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"response":         outcome.Response,
		"detectedLanguage": outcome.DetectedLanguage,
	})
}
