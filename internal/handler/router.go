package handler

import (
	"net/http"

	"github.com/vivek-portfolio/portfolio-api/pkg/middleware"
)

// Router handles HTTP routing
type Router struct {
	rootHandler        *RootHandler
	statusCheckHandler *StatusCheckHandler
	healthHandler      *HealthHandler
	corsConfig         middleware.CORSConfig
}

// NewRouter creates a new router
func NewRouter(
	rootHandler *RootHandler,
	statusCheckHandler *StatusCheckHandler,
	healthHandler *HealthHandler,
	corsConfig middleware.CORSConfig,
) *Router {
	return &Router{
		rootHandler:        rootHandler,
		statusCheckHandler: statusCheckHandler,
		healthHandler:      healthHandler,
		corsConfig:         corsConfig,
	}
}

// Handler returns the configured HTTP handler with middleware
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	// Service endpoints
	mux.HandleFunc("/health", rt.get(rt.healthHandler.Health))
	mux.HandleFunc("/ready", rt.get(rt.healthHandler.Ready))
	mux.HandleFunc("/docs", rt.get(OpenAPI))
	mux.HandleFunc("/openapi.json", rt.get(OpenAPI))

	// API endpoints
	mux.HandleFunc("/", rt.handleRoot)
	mux.HandleFunc("/api/", rt.handleAPIRoot)
	mux.HandleFunc("/api/status", rt.handleStatusChecks)
	mux.HandleFunc("/api/status/", rt.redirectStatusChecks)

	// Apply middleware (CORS first to handle preflight requests)
	handler := middleware.CORS(rt.corsConfig)(mux)
	handler = middleware.Recovery(handler)
	handler = middleware.Logging(handler)
	handler = middleware.CorrelationID(handler)

	return handler
}

// handleRoot serves the banner on "/" exactly; everything unmatched lands here
func (rt *Router) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		notFound(w)
		return
	}
	rt.get(rt.rootHandler.Welcome)(w, r)
}

// handleAPIRoot serves the greeting on "/api/" exactly
func (rt *Router) handleAPIRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/" {
		notFound(w)
		return
	}
	rt.get(rt.rootHandler.Hello)(w, r)
}

// handleStatusChecks routes status check collection endpoints
func (rt *Router) handleStatusChecks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		rt.statusCheckHandler.List(w, r)
	case http.MethodPost:
		rt.statusCheckHandler.Create(w, r)
	default:
		methodNotAllowed(w, "GET, HEAD, POST")
	}
}

// redirectStatusChecks sends "/api/status/" to the canonical collection path.
// 307 keeps the method and body of POST requests.
func (rt *Router) redirectStatusChecks(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/status/" {
		notFound(w)
		return
	}
	target := "/api/status"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

// get restricts a handler to GET and HEAD
func (rt *Router) get(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w, "GET, HEAD")
			return
		}
		next(w, r)
	}
}
