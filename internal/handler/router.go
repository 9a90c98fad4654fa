package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	dashboardhandler "github.com/jferrall/teachbridge/backend/internal/handler/dashboard"
	inquiryhandler "github.com/jferrall/teachbridge/backend/internal/handler/inquiry"
	languagehandler "github.com/jferrall/teachbridge/backend/internal/handler/language"
	responsehandler "github.com/jferrall/teachbridge/backend/internal/handler/response"
	templatehandler "github.com/jferrall/teachbridge/backend/internal/handler/template"
	"github.com/jferrall/teachbridge/backend/internal/middleware"
	"github.com/jferrall/teachbridge/backend/internal/notify"
	dashboardservice "github.com/jferrall/teachbridge/backend/internal/service/dashboard"
	inquiryservice "github.com/jferrall/teachbridge/backend/internal/service/inquiry"
	"github.com/jferrall/teachbridge/backend/internal/store"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(st store.Store, workflow *inquiryservice.Service, stats *dashboardservice.Service, hub *notify.Hub, fallbackUsername string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	inquiryHandler := inquiryhandler.New(workflow)
	responseHandler := responsehandler.New(workflow)
	templateHandler := templatehandler.New(workflow)
	languageHandler := languagehandler.New(workflow)
	dashboardHandler := dashboardhandler.New(stats, workflow)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.ResolveUser(st, fallbackUsername))

		inquiryHandler.RegisterRoutes(api)
		responseHandler.RegisterRoutes(api)
		templateHandler.RegisterRoutes(api)
		languageHandler.RegisterRoutes(api)
		dashboardHandler.RegisterRoutes(api)

		if hub != nil {
			api.Get("/activities/ws", hub.HandleWS)
		}
	})

	return r
}
