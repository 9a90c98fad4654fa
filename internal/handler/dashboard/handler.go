package dashboard

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jferrall/teachbridge/backend/internal/handler/httperr"
	"github.com/jferrall/teachbridge/backend/internal/middleware"
	dashboardservice "github.com/jferrall/teachbridge/backend/internal/service/dashboard"
	inquiryservice "github.com/jferrall/teachbridge/backend/internal/service/inquiry"
	"github.com/jferrall/teachbridge/backend/pkg/utils"
)

const defaultActivityLimit = 10

// Handler serves the read-only dashboard aggregates.
type Handler struct {
	stats    *dashboardservice.Service
	workflow *inquiryservice.Service
}

// New creates the dashboard handler.
func New(stats *dashboardservice.Service, workflow *inquiryservice.Service) *Handler {
	return &Handler{stats: stats, workflow: workflow}
}

// RegisterRoutes mounts the dashboard routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/stats", h.handleStats)
	r.Get("/activities", h.handleActivities)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "no user in request")
		return
	}

	stats, err := h.stats.Stats(r.Context(), user.ID)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleActivities(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "no user in request")
		return
	}

	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	activities, err := h.workflow.Activities(r.Context(), user.ID, limit)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, activities)
}
