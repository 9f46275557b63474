// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	httpin "wecastmint/internal/adapters/in/http"
	"wecastmint/internal/adapters/in/http/handlers"
	"wecastmint/internal/adapters/out/gcs"
	"wecastmint/internal/adapters/out/hub"
	"wecastmint/internal/adapters/out/localfs"
	assetdom "wecastmint/internal/domain/asset"
	"wecastmint/internal/infra/config"
	"wecastmint/internal/infra/secret"
	"wecastmint/internal/platform/metrics"
)

// Container holds the server's wired dependencies so main.go stays thin.
type Container struct {
	Config  *config.Config
	Log     zerolog.Logger
	Metrics *metrics.Collector

	Hub    *hub.Client
	Assets assetdom.Store

	closers []io.Closer
}

// NewContainer builds every outbound client and HTTP handler from cfg.
// A missing hub credential is not fatal: the proxy answers 500 until fixed.
func NewContainer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Log:     log.With().Str("component", "di").Logger(),
		Metrics: metrics.NewCollector(),
	}

	// ------------------------------------------------------------
	// 1. Hub credential (env, then Secret Manager)
	// ------------------------------------------------------------
	apiKey, err := c.resolveAPIKey(ctx)
	if err != nil {
		c.Log.Warn().Err(err).Msg("hub api key unavailable; proxy will answer 500")
	}
	c.Hub = hub.NewClient(cfg.HubBaseURL, apiKey, cfg.HubTimeout)

	// ------------------------------------------------------------
	// 2. Asset store (GCS or local dir)
	// ------------------------------------------------------------
	if cfg.UseGCSAssets() {
		sc, err := storage.NewClient(ctx, c.clientOptions()...)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("di: storage client: %w", err)
		}
		c.closers = append(c.closers, sc)
		c.Assets = gcs.NewAssetRepositoryGCS(sc, cfg.AssetBucket, cfg.AssetPrefix)
		c.Log.Info().Str("bucket", cfg.AssetBucket).Msg("assets from GCS")
	} else {
		c.Assets = localfs.NewAssetStore(cfg.AssetDir)
		c.Log.Info().Str("dir", cfg.AssetDir).Msg("assets from local directory")
	}

	return c, nil
}

func (c *Container) clientOptions() []option.ClientOption {
	if f := strings.TrimSpace(c.Config.CredentialsFile); f != "" {
		return []option.ClientOption{option.WithCredentialsFile(f)}
	}
	return nil
}

func (c *Container) resolveAPIKey(ctx context.Context) (string, error) {
	if k := strings.TrimSpace(c.Config.NeynarAPIKey); k != "" {
		return k, nil
	}
	ref := strings.TrimSpace(c.Config.NeynarAPIKeySecret)
	if ref == "" {
		return "", hub.ErrMisconfigured
	}

	sm, err := secretmanager.NewClient(ctx, c.clientOptions()...)
	if err != nil {
		return "", fmt.Errorf("di: secretmanager client: %w", err)
	}
	defer sm.Close()

	return secret.NewAPIKeyProviderSM(sm, c.Config.GCPProjectID).APIKey(ctx, ref)
}

// Router builds the HTTP handler tree.
func (c *Container) Router() (http.Handler, error) {
	settings := c.Config.FrameSettings()

	page, err := handlers.NewFramePageHandler(settings)
	if err != nil {
		return nil, err
	}

	return httpin.NewRouter(httpin.RouterDeps{
		ReactionProxy:  handlers.NewReactionProxyHandler(c.Hub, c.Metrics, c.Log),
		Manifest:       handlers.NewManifestHandler(settings),
		FramePage:      page,
		Assets:         handlers.NewAssetHandler(c.Assets, c.Log),
		Metrics:        c.Metrics.Handler(),
		Observer:       c.Metrics,
		AllowedOrigins: c.Config.CORSAllowedOrigins,
		Log:            c.Log,
	}), nil
}

// Close releases outbound clients; all errors are reported.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var result *multierror.Error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	c.closers = nil
	return result.ErrorOrNil()
}
