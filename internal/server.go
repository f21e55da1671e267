package internal

import (
	"embed"
	"net/http"
	"os"

	"asset-lending-api/internal/auth"
	"asset-lending-api/internal/blob"
	"asset-lending-api/internal/config"
	"asset-lending-api/internal/inventory"
	"asset-lending-api/internal/lending"
	"asset-lending-api/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

//go:embed openapi
var openapiFS embed.FS

type Server struct {
	Router     *chi.Mux
	Store      store.RowStore
	Ledger     *inventory.Ledger
	Loans      *lending.Lifecycle
	JWTManager *auth.JWTManager
	Metrics    *Metrics
	Log        *logrus.Logger
	Cfg        *config.Config

	validate *validator.Validate
}

// NewServer wires the ledger and lifecycle over the given row store and
// mounts all routes. The store and photo uploader are injected so tests can
// run the full HTTP surface against in-memory fakes.
func NewServer(cfg *config.Config, rs store.RowStore, photos blob.Uploader, log *logrus.Logger) *Server {
	ledger := inventory.NewLedger(rs, cfg.ItemsSheet)

	s := &Server{
		Router:     chi.NewRouter(),
		Store:      rs,
		Ledger:     ledger,
		Loans:      lending.NewLifecycle(rs, ledger, photos, cfg.LoansSheet, log),
		JWTManager: auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiry),
		Metrics:    NewMetrics(),
		Log:        log,
		Cfg:        cfg,
		validate:   validator.New(),
	}

	s.Router.Use(s.requestLogger)

	// Chi requires every middleware to be registered before the first route.
	metricsEnabled := os.Getenv("ENABLE_METRICS") == "true"
	if metricsEnabled {
		s.Router.Use(s.Metrics.Middleware())
	}

	// Public routes
	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	s.Router.Post("/login", s.login)
	s.mountDocs(s.Router)

	if metricsEnabled {
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	// The deployed frontend talks to the API without tokens; bearer auth is
	// opt-in so existing installs keep working.
	requireAuth := os.Getenv("REQUIRE_AUTH") == "true"
	s.Router.Group(func(r chi.Router) {
		if requireAuth {
			r.Use(auth.Middleware(s.JWTManager))
		}
		s.mountRoutes(r, requireAuth)
	})

	return s
}

// mountRoutes mounts the API surface. Write operations demand the Admin role
// when bearer auth is on.
func (s *Server) mountRoutes(r chi.Router, requireAuth bool) {
	adminOnly := func(h http.HandlerFunc) http.HandlerFunc {
		if !requireAuth {
			return h
		}
		return auth.MustRole("Admin")(h).(http.HandlerFunc)
	}

	// Catalog
	r.Get("/items", s.listItems)
	r.Post("/items", adminOnly(s.createItem))
	r.Delete("/items/{code}", adminOnly(s.deleteItem))

	// Loans
	r.Post("/loans", adminOnly(s.createLoan))
	r.Get("/loans/ticket/{id}", s.getActiveLoan)
	r.Post("/returns", adminOnly(s.returnLoan))

	// History
	r.Get("/history", s.listHistory)
	r.Get("/history/export", s.exportHistory)

	// User management
	r.Get("/users", adminOnly(s.listUsers))
	r.Post("/users", adminOnly(s.createUser))
	r.Put("/users/{username}", adminOnly(s.updateUser))
	r.Delete("/users/{username}", adminOnly(s.deleteUser))
}

// requestLogger logs one line per request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debug("request")
		next.ServeHTTP(w, r)
	})
}

// mountDocs serves the OpenAPI spec and Swagger UI
func (s *Server) mountDocs(mux *chi.Mux) {
	if os.Getenv("ENABLE_SWAGGER") != "true" {
		return
	}

	// Serve the raw YAML
	mux.HandleFunc("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		data, err := openapiFS.ReadFile("openapi/openapi.yaml")
		if err != nil {
			http.Error(w, "Failed to read OpenAPI spec", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/x-yaml")
		if _, err := w.Write(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	// Serve Swagger UI page
	mux.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		w.Write([]byte(`<!doctype html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Asset Lending API - Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: '/openapi.yaml',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIBundle.presets.standalone
                ],
                layout: "StandaloneLayout"
            });
        };
    </script>
</body>
</html>`))
	})
}
