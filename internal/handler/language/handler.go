package language

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jferrall/teachbridge/backend/internal/handler/httperr"
	"github.com/jferrall/teachbridge/backend/internal/middleware"
	inquiryservice "github.com/jferrall/teachbridge/backend/internal/service/inquiry"
	"github.com/jferrall/teachbridge/backend/pkg/utils"
	"github.com/jferrall/teachbridge/backend/pkg/validate"
)

// Handler serves the free-text translate and detect endpoints.
type Handler struct {
	svc *inquiryservice.Service
}

// New creates the language handler.
func New(svc *inquiryservice.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the language routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/translate", h.handleTranslate)
	r.Post("/detect-language", h.handleDetect)
}

type translateRequest struct {
	Text           string `json:"text" validate:"required"`
	TargetLanguage string `json:"targetLanguage" validate:"required"`
}

func (h *Handler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "no user in request")
		return
	}

	var payload translateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	translated, err := h.svc.Translate(r.Context(), user.ID, payload.Text, payload.TargetLanguage)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"translatedText": translated})
}

type detectRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *Handler) handleDetect(w http.ResponseWriter, r *http.Request) {
	var payload detectRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	detected := h.svc.DetectLanguage(r.Context(), payload.Text)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"detectedLanguage": detected})
}
