// Package middleware provides HTTP middleware shared by the service's servers.
package middleware

import (
	"net/http"
	"slices"
)

// CorsConfig lists the origins allowed to call the API. An empty list, or the
// single entry "*", allows any origin.
type CorsConfig struct {
	AllowedOrigins []string
}

// CORS wraps next with origin checks and preflight handling.
func CORS(cfg CorsConfig, next http.Handler) http.Handler {
	allowAll := len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if allowAll {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if slices.Contains(cfg.AllowedOrigins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
