// internal/adapters/in/http/handlers/manifest_handler.go
package handlers

import (
	"net/http"

	framedom "wecastmint/internal/domain/frame"
)

// ManifestHandler serves GET /.well-known/farcaster.json.
type ManifestHandler struct {
	settings framedom.Settings
}

func NewManifestHandler(settings framedom.Settings) http.Handler {
	return &ManifestHandler{settings: settings}
}

func (h *ManifestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, "GET, HEAD")
		return
	}
	writeJSON(w, http.StatusOK, h.settings.Manifest())
}
