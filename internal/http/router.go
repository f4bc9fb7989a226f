package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/helpinghands/volunteer-api/internal/auth"
	"github.com/helpinghands/volunteer-api/internal/config"
	"github.com/helpinghands/volunteer-api/internal/donation"
	"github.com/helpinghands/volunteer-api/internal/httputil"
	"github.com/helpinghands/volunteer-api/internal/logging"
	"github.com/helpinghands/volunteer-api/internal/opportunity"
	"github.com/helpinghands/volunteer-api/internal/signup"
	"github.com/helpinghands/volunteer-api/internal/user"
)

// Handlers bundles the per-resource handlers the router mounts.
type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Donation    *donation.Handler
	Opportunity *opportunity.Handler
	Signup      *signup.Handler
	AuthGate    *auth.Middleware
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", auth.TokenHeader},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(middleware.Compress(5))        // Compress responses

	// Public routes
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	// Production builds will not have this route at all
	if cfg.Server.IsDevelopment() {
		log.Println("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	} else {
		log.Println("Swagger UI disabled (production mode)")
	}

	r.Route("/api", func(r chi.Router) {
		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		// Profile routes (require authentication)
		r.Route("/profile", func(r chi.Router) {
			r.Use(h.AuthGate.RequireAuth)
			r.Get("/me", h.User.GetMe)
			r.Put("/me", h.User.UpdateMe)
			r.Delete("/me", h.User.DeleteMe)
		})

		// Donation routes: reads are public, writes require authentication
		r.Route("/donations", func(r chi.Router) {
			r.Get("/", h.Donation.HandleList)
			r.Get("/{id}", h.Donation.HandleGetByID)

			r.Group(func(r chi.Router) {
				r.Use(h.AuthGate.RequireAuth)
				r.Post("/", h.Donation.HandleCreate)
				r.Put("/{id}", h.Donation.HandleUpdate)
				r.Delete("/{id}", h.Donation.HandleDelete)
			})
		})

		// Opportunity catalog (public, read-only)
		r.Get("/opportunities", h.Opportunity.HandleList)

		// Signup routes (require authentication)
		r.Route("/user-opportunities", func(r chi.Router) {
			r.Use(h.AuthGate.RequireAuth)
			r.Post("/", h.Signup.HandleCreate)
			r.Get("/me", h.Signup.HandleListMine)
		})
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
