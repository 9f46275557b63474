// internal/infra/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	framedom "wecastmint/internal/domain/frame"
)

// Config holds the server's environment settings.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Public origin of the app; NEXT_PUBLIC_URL is accepted as a fallback.
	AppURL        string `env:"APP_URL"`
	NextPublicURL string `env:"NEXT_PUBLIC_URL"`

	// Hub API credential. When empty, NeynarAPIKeySecret is read from
	// Secret Manager ("name" or "projects/<p>/secrets/<name>/versions/<v>").
	NeynarAPIKey       string        `env:"NEYNAR_API_KEY"`
	NeynarAPIKeySecret string        `env:"NEYNAR_API_KEY_SECRET"`
	HubBaseURL         string        `env:"HUB_BASE_URL" envDefault:"https://hub-api.neynar.com"`
	HubTimeout         time.Duration `env:"HUB_TIMEOUT" envDefault:"10s"`

	// Assets: GCS when AssetBucket is set, otherwise AssetDir.
	AssetBucket string `env:"ASSET_BUCKET"`
	AssetPrefix string `env:"ASSET_PREFIX"`
	AssetDir    string `env:"ASSET_DIR" envDefault:"public"`

	GCPProjectID       string `env:"GCP_PROJECT_ID"`
	GoogleCloudProject string `env:"GOOGLE_CLOUD_PROJECT"`
	CredentialsFile    string `env:"GCP_CREDENTIALS_FILE"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Manifest ManifestOverrides `envPrefix:"MANIFEST_"`
}

// ManifestOverrides replace the built-in manifest values when set.
type ManifestOverrides struct {
	Header                string `env:"HEADER"`
	Payload               string `env:"PAYLOAD"`
	Signature             string `env:"SIGNATURE"`
	Name                  string `env:"NAME"`
	ButtonTitle           string `env:"BUTTON_TITLE"`
	SplashBackgroundColor string `env:"SPLASH_BACKGROUND_COLOR"`
}

// Load reads the process environment.
func Load() (*Config, error) {
	return LoadFrom(nil)
}

// LoadFrom reads the given environment; nil means os.Environ.
func LoadFrom(environ map[string]string) (*Config, error) {
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	if c.Port == "" {
		c.Port = "8080"
	}
	c.AppURL = strings.TrimRight(strings.TrimSpace(c.AppURL), "/")
	if c.AppURL == "" {
		c.AppURL = strings.TrimRight(strings.TrimSpace(c.NextPublicURL), "/")
	}
	if c.AppURL == "" {
		c.AppURL = "http://localhost:" + c.Port
	}
	if c.GCPProjectID == "" {
		c.GCPProjectID = strings.TrimSpace(c.GoogleCloudProject)
	}

	origins := c.CORSAllowedOrigins[:0]
	for _, o := range c.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSAllowedOrigins = origins
}

// UseGCSAssets reports whether assets come from a bucket.
func (c *Config) UseGCSAssets() bool {
	return strings.TrimSpace(c.AssetBucket) != ""
}

// FrameSettings merges manifest overrides onto the built-in values.
func (c *Config) FrameSettings() framedom.Settings {
	s := framedom.DefaultSettings(c.AppURL)
	m := c.Manifest
	overlay(&s.AssociationHeader, m.Header)
	overlay(&s.AssociationPayload, m.Payload)
	overlay(&s.AssociationSignature, m.Signature)
	overlay(&s.Name, m.Name)
	overlay(&s.ButtonTitle, m.ButtonTitle)
	overlay(&s.SplashBackgroundColor, m.SplashBackgroundColor)
	return s
}

func overlay(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
