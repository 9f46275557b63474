package di

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wecastmint/internal/infra/config"
)

func newTestContainer(t *testing.T, hubURL string) *Container {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "icon.png"), []byte("png"), 0o644))

	cfg, err := config.LoadFrom(map[string]string{
		"APP_URL":        "https://wecast.example",
		"NEYNAR_API_KEY": "test-key",
		"HUB_BASE_URL":   hubURL,
		"ASSET_DIR":      dir,
	})
	require.NoError(t, err)

	c, err := NewContainer(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestContainerRouterServesEveryRoute(t *testing.T) {
	hub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/reactionById", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"reactionBody":{"type":"REACTION_TYPE_LIKE"}}}`))
	}))
	defer hub.Close()

	c := newTestContainer(t, hub.URL)
	h, err := c.Router()
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(b)
	}

	code, body := get("/api/checkUserLikedCast?target_hash=0xabc&target_fid=4163&fid=5701")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"data":{"reactionBody":{"type":"REACTION_TYPE_LIKE"}}}`, body)

	code, body = get("/.well-known/farcaster.json")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"homeUrl":"https://wecast.example"`)

	code, body = get("/icon.png")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "png", body)

	code, _ = get("/")
	assert.Equal(t, http.StatusOK, code)

	code, body = get("/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "wecastmint_proxy_requests_total")

	code, _ = get("/healthz")
	assert.Equal(t, http.StatusOK, code)
}

func TestContainerWithoutHubKeyStillBuilds(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{"ASSET_DIR": t.TempDir()})
	require.NoError(t, err)

	c, err := NewContainer(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	h, err := c.Router()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/checkUserLikedCast?target_hash=0xabc&target_fid=1&fid=2", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
}
