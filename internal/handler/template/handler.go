package template

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

// Handler serves response-template CRUD and usage tracking.
type Handler struct {
	svc *inquiryservice.Service
}

// New creates the template handler.
func New(svc *inquiryservice.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the template routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/templates", h.handleList)
	r.Post("/templates", h.handleCreate)
	r.Post("/templates/{id}/use", h.handleUse)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "no user in request")
		return
	}

	typ := comm.InquiryType(r.URL.Query().Get("type"))
	if typ != "" && !comm.ValidInquiryType(typ) {
		utils.RespondError(w, http.StatusBadRequest, "unknown template type")
		return
	}

	templates, err := h.svc.Templates(r.Context(), user.ID, typ)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, templates)
}

type createRequest struct {
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=assignment_help grade_inquiry schedule_question parent_communication technical_support general_question"`
	Content  string `json:"content" validate:"required"`
	Language string `json:"language" validate:"required"`
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

	created, err := h.svc.CreateTemplate(r.Context(), user.ID, inquiryservice.TemplateInput{
		Name:     payload.Name,
		Type:     comm.InquiryType(payload.Type),
		Content:  payload.Content,
		Language: payload.Language,
	})
	if err != nil {
		httperr.Write(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, created)
}

func (h *Handler) handleUse(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "no user in request")
		return
	}

	used, err := h.svc.UseTemplate(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, used)
}
