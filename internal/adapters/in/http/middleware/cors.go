// internal/adapters/in/http/middleware/cors.go
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the frame host to call the API from the browser.
// An empty origin list means "*" (frames are embedded by arbitrary clients).
// Preflights are answered here; any other OPTIONS request reaches the route.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         600,
	})
	return c.Handler
}
