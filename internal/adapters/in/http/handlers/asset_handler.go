// internal/adapters/in/http/handlers/asset_handler.go
package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/rs/zerolog"

	assetdom "wecastmint/internal/domain/asset"
)

// AssetHandler streams frame assets (icon, splash, preview images) from an
// asset.Store, which is GCS in production and a local directory in dev.
type AssetHandler struct {
	store assetdom.Store
	log   zerolog.Logger
}

func NewAssetHandler(store assetdom.Store, log zerolog.Logger) http.Handler {
	return &AssetHandler{
		store: store,
		log:   log.With().Str("component", "assets").Logger(),
	}
}

func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, "GET, HEAD")
		return
	}
	if h.store == nil {
		http.NotFound(w, r)
		return
	}

	name, err := assetdom.CleanName(r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	obj, err := h.store.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, assetdom.ErrNotFound) || errors.Is(err, assetdom.ErrInvalidName) {
			http.NotFound(w, r)
			return
		}
		h.log.Error().Err(err).Str("name", name).Msg("asset open failed")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer obj.Body.Close()

	ct := obj.ContentType
	if ct == "" {
		ct = mime.TypeByExtension(path.Ext(name))
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	if !obj.UpdatedAt.IsZero() {
		w.Header().Set("Last-Modified", obj.UpdatedAt.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, obj.Body); err != nil {
		h.log.Warn().Err(err).Str("name", name).Msg("asset copy interrupted")
	}
}
