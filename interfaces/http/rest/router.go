package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"annograph/interfaces/http/rest/handlers"
	"annograph/interfaces/http/rest/middleware"
	"annograph/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	passages   *handlers.PassageHandler
	validator  *auth.JWTValidator
	enableCORS bool
	logger     *zap.Logger
}

// NewRouter creates a new router instance. A nil validator disables
// authentication, which is only meant for development setups.
func NewRouter(
	passages *handlers.PassageHandler,
	validator *auth.JWTValidator,
	enableCORS bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		passages:   passages,
		validator:  validator,
		enableCORS: enableCORS,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		if rt.validator != nil {
			r.Use(middleware.Authenticate(rt.validator, rt.logger))
		}

		r.Route("/passages", func(r chi.Router) {
			r.Post("/", rt.passages.CreatePassage)
			r.Get("/", rt.passages.ListPassages)
			r.Post("/import/site", rt.passages.ImportSite)
			r.Post("/import/json", rt.passages.ImportJSON)

			r.Route("/{passageID}", func(r chi.Router) {
				r.Get("/", rt.passages.GetPassage)
				r.With(rt.guard("admin")).Delete("/", rt.passages.DeletePassage)
				r.Get("/export", rt.passages.ExportJSON)
				r.Get("/text", rt.passages.Text)
				r.Get("/scenes", rt.passages.Scenes)
				r.Post("/validate", rt.passages.Validate)
				r.Post("/pull", rt.passages.Pull)
				r.Post("/push", rt.passages.Push)
			})
		})
	})

	return router
}

// guard restricts a route to the given roles. Without a validator there is
// no user to check, so the guard stays open.
func (rt *Router) guard(roles ...string) func(http.Handler) http.Handler {
	if rt.validator == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.RequireRole(roles...)
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
