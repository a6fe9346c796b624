package middleware

import (
	"net/http"
	"strconv"
)

// allowedMethods is sent on preflight responses; every method is permitted
const allowedMethods = "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT"

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins is the origin allow-list; "*" allows any origin
	AllowedOrigins []string
	MaxAge         int
}

// CORS middleware applies a static allow-list policy. All methods and
// headers are permitted and credentials are never allowed.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]struct{}, len(config.AllowedOrigins))
	for _, origin := range config.AllowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	isAllowed := func(origin string) bool {
		if allowAll {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Handle preflight OPTIONS request
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if !isAllowed(origin) {
					http.Error(w, "Disallowed CORS origin", http.StatusBadRequest)
					return
				}

				setAllowOrigin(w.Header(), origin, allowAll)
				w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
				if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
					w.Header().Set("Access-Control-Allow-Headers", requested)
				}
				if config.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				}
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("OK"))
				return
			}

			if isAllowed(origin) {
				setAllowOrigin(w.Header(), origin, allowAll)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func setAllowOrigin(h http.Header, origin string, allowAll bool) {
	if allowAll {
		h.Set("Access-Control-Allow-Origin", "*")
		return
	}
	h.Set("Access-Control-Allow-Origin", origin)
	h.Add("Vary", "Origin")
}
