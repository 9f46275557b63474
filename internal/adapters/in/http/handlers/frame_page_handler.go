// internal/adapters/in/http/handlers/frame_page_handler.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	framedom "wecastmint/internal/domain/frame"
)

// pageRevalidateSeconds matches how long clients may cache the landing page.
const pageRevalidateSeconds = 300

var framePageTmpl = template.Must(template.New("frame").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<meta property="og:title" content="{{.Title}}">
<meta property="og:description" content="{{.Description}}">
<meta property="og:image" content="{{.ImageURL}}">
<meta name="fc:frame" content="{{.Embed}}">
</head>
<body>
<main><h1>{{.Title}}</h1><p>{{.Description}}</p></main>
</body>
</html>
`))

type framePageData struct {
	Title       string
	Description string
	ImageURL    string
	Embed       string
}

// FramePageHandler serves the landing page whose fc:frame meta tag lets a
// Farcaster client render the launch button.
type FramePageHandler struct {
	page []byte
}

// NewFramePageHandler renders the page once; settings are static for the
// process lifetime.
func NewFramePageHandler(settings framedom.Settings) (http.Handler, error) {
	embed, err := json.Marshal(settings.Embed())
	if err != nil {
		return nil, fmt.Errorf("frame page: marshal embed: %w", err)
	}

	var buf bytes.Buffer
	if err := framePageTmpl.Execute(&buf, framePageData{
		Title:       settings.PageTitle,
		Description: settings.PageDescription,
		ImageURL:    settings.URL(settings.ImagePath),
		Embed:       string(embed),
	}); err != nil {
		return nil, fmt.Errorf("frame page: render: %w", err)
	}
	return &FramePageHandler{page: buf.Bytes()}, nil
}

func (h *FramePageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, "GET, HEAD")
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", pageRevalidateSeconds))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(h.page)
}
