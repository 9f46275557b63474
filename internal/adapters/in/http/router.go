// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"wecastmint/internal/adapters/in/http/handlers"
	"wecastmint/internal/adapters/in/http/middleware"
)

// RouterDeps collects the handlers and options injected from the DI container.
type RouterDeps struct {
	ReactionProxy http.Handler
	Manifest      http.Handler
	FramePage     http.Handler
	Assets        http.Handler
	Metrics       http.Handler

	Observer       middleware.RequestObserver
	AllowedOrigins []string
	Log            zerolog.Logger
}

// NewRouter sets up HTTP routing. Handlers that are nil are not mounted.
func NewRouter(deps RouterDeps) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.AccessLog(deps.Log, deps.Observer))

	// Health check (always on)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// No Methods() filter: the proxy answers non-GET itself with the {"message"} 405.
	handleSafe(r, handlers.CheckUserLikedCastPath, deps.ReactionProxy)
	handleSafe(r, "/.well-known/farcaster.json", deps.Manifest)
	handleSafe(r, "/", deps.FramePage)
	handleSafe(r, "/metrics", deps.Metrics)

	if deps.Assets != nil {
		for _, p := range []string{"/icon.png", "/frame.png", "/splash.png"} {
			r.Handle(p, deps.Assets)
		}
		r.PathPrefix("/images/").Handler(deps.Assets)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not found"}`))
	})

	// Recover inside CORS so even a panic response carries the CORS headers.
	var h http.Handler = r
	h = middleware.Recover(deps.Log)(h)
	h = middleware.CORS(deps.AllowedOrigins)(h)
	return h
}

// handleSafe mounts h only when non-nil.
func handleSafe(r *mux.Router, path string, h http.Handler) {
	if r == nil || h == nil {
		return
	}
	r.Handle(path, h)
}
