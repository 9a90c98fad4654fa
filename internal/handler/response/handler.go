package response

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jferrall/teachbridge/backend/internal/handler/httperr"
	"github.com/jferrall/teachbridge/backend/internal/middleware"
	"github.com/jferrall/teachbridge/backend/internal/model/comm"
	inquiryservice "github.com/jferrall/teachbridge/backend/internal/service/inquiry"
	"github.com/jferrall/teachbridge/backend/pkg/utils"
	"github.com/jferrall/teachbridge/backend/pkg/validate"
)

const defaultListLimit = 50

// Handler serves response listing, edits, the send transition, and
// per-response translation.
type Handler struct {
	svc *inquiryservice.Service
}

// New creates the response handler.
func New(svc *inquiryservice.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the response routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/responses", h.handleList)
	r.Patch("/responses/{id}", h.handleUpdate)
	r.Post("/responses/{id}/translate", h.handleTranslate)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "no user in request")
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	responses, err := h.svc.RecentResponses(r.Context(), user.ID, limit)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, responses)
}

type updateRequest struct {
	Content  *string `json:"content"`
	Language *string `json:"language"`
	Tone     *string `json:"tone"`
	Status   *string `json:"status"`
}

// handleUpdate applies draft edits and, when status is set to "sent",
// performs the send transition. sentAt is always stamped server-side.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "no user in request")
		return
	}

	var payload updateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Status != nil && *payload.Status != comm.ResponseSent {
		utils.RespondError(w, http.StatusBadRequest, "status can only be set to sent")
		return
	}

	responseID := chi.URLParam(r, "id")

	updated, err := h.svc.EditResponse(r.Context(), responseID, inquiryservice.EditInput{
		Content:  payload.Content,
		Language: payload.Language,
		Tone:     payload.Tone,
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	if payload.Status != nil {
		updated, err = h.svc.SendResponse(r.Context(), user.ID, responseID)
		if err != nil {
			httperr.Write(w, err)
			return
		}
	}

	utils.RespondJSON(w, http.StatusOK, updated)
}

type translateRequest struct {
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

	translated, err := h.svc.TranslateResponse(r.Context(), user.ID, chi.URLParam(r, "id"), payload.TargetLanguage)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, translated)
}
