package httpmiddleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// CORSConfig configures cross-origin access to the API.
type CORSConfig struct {
	// AllowOrigins lists the origins allowed to call the API. Empty, or any
	// entry "*", allows every origin.
	AllowOrigins []string

	// AllowHeaders lists the request headers clients may send. When empty
	// the preflight's Access-Control-Request-Headers is echoed back.
	AllowHeaders []string

	// AllowCredentials permits cookies and authorization headers. Wildcard
	// origins are then disabled, the specific origin is echoed instead.
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds. Zero omits the
	// header.
	MaxAge int
}

// corsMethods covers every method the API routes serve.
const corsMethods = "GET, POST, PUT, DELETE, OPTIONS"

// CORS handles cross-origin request headers and answers preflights with 204.
// Vary is set on Origin and the preflight request headers so shared caches
// never serve one origin's response to another.
func CORS(cfg CORSConfig) Middleware {
	wildcard := len(cfg.AllowOrigins) == 0 || slices.Contains(cfg.AllowOrigins, "*")
	if cfg.AllowCredentials {
		wildcard = false
	}

	origins := make(map[string]struct{}, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		origins[strings.ToLower(o)] = struct{}{}
	}

	allowOrigin := func(origin string) string {
		if wildcard {
			return "*"
		}
		if _, ok := origins[strings.ToLower(origin)]; ok {
			return origin
		}
		return ""
	}

	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")
	var maxAge string
	if cfg.MaxAge > 0 {
		maxAge = strconv.Itoa(cfg.MaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Origin")

			// Preflight: OPTIONS carrying Access-Control-Request-Method.
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Add("Vary", "Access-Control-Request-Method")
				w.Header().Add("Vary", "Access-Control-Request-Headers")

				if ao := allowOrigin(origin); ao != "" {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", ao)
					h.Set("Access-Control-Allow-Methods", corsMethods)
					switch requested := r.Header.Get("Access-Control-Request-Headers"); {
					case allowHeaders != "":
						h.Set("Access-Control-Allow-Headers", allowHeaders)
					case requested != "":
						h.Set("Access-Control-Allow-Headers", requested)
					}
					if cfg.AllowCredentials {
						h.Set("Access-Control-Allow-Credentials", "true")
					}
					if maxAge != "" {
						h.Set("Access-Control-Max-Age", maxAge)
					}
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if ao := allowOrigin(origin); ao != "" {
				w.Header().Set("Access-Control-Allow-Origin", ao)
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
