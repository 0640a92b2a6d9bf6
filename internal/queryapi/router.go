package queryapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/dpriskorn/riksdagen-sentences/internal/refcache"
	"github.com/dpriskorn/riksdagen-sentences/internal/store"
)

// NewRouter builds the chi router serving §4.8's query service: request
// id/real-ip/panic-recovery middleware, structured access logging, and
// (when enabled) permissive CORS for browser clients, followed by the
// lookup and documentation routes.
func NewRouter(s *store.Store, c *refcache.Cache, log *zap.Logger, enableCORS bool) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(LoggingMiddleware(log))

	if enableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Total-Count", "X-Request-ID"},
			MaxAge:         300,
		}))
	}

	h := NewHandlers(s, c, log)
	r.Post("/lookup", h.Lookup)
	r.Get("/docs", ServeDocs)
	r.Get("/openapi.json", ServeOpenAPISpec)
	r.Get("/health", healthCheck)

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
