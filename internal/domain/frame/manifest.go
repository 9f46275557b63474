// internal/domain/frame/manifest.go
package frame

import "strings"

// Settings describe the app to the hosting frame runtime. Asset paths are
// relative and resolved against AppURL.
type Settings struct {
	AppURL string

	// Domain ownership proof (JFS header/payload/signature, base64url).
	AssociationHeader    string
	AssociationPayload   string
	AssociationSignature string

	Name                  string
	ButtonTitle           string
	IconPath              string
	ImagePath             string
	SplashImagePath       string
	SplashBackgroundColor string

	// Landing page embed (fc:frame meta).
	PageTitle       string
	PageDescription string
	EmbedButton     string
	LaunchName      string
}

// DefaultSettings carries the WeCastPro values.
func DefaultSettings(appURL string) Settings {
	return Settings{
		AppURL:               appURL,
		AssociationHeader:    "eyJmaWQiOjU3MDEsInR5cGUiOiJjdXN0b2R5Iiwia2V5IjoiMHgyMTQ1NzNGOTA0NzU5ODc0QzlDMmU0OTAzYjFjYmQwYkI1ODIxZTFEIn0",
		AssociationPayload:   "eyJkb21haW4iOiJtaW50LWZyYW1lLXdlLWNhc3QtcHJvLnZlcmNlbC5hcHAifQ",
		AssociationSignature: "MHg5NGVmODVlYjNjN2I1MjY3MTE0M2EzNWZkNzFlM2VhYmJlYTI0ODUzOGFhZTMzMjA5Njg0YjI0YTQ5MjAxOWUxMjY4NzZmZWUyMzNkZmIwZmIxYjY0MjNlY2UxNTRjNjdmMzlmMWVkYWVkYjE0ZTM4MTkwZmM3MzU2MzU1MGQ0NTFj",

		Name:                  "WeCastPro Mint",
		ButtonTitle:           "Mint",
		IconPath:              "/icon.png",
		ImagePath:             "/frame.png",
		SplashImagePath:       "/splash.png",
		SplashBackgroundColor: "#0f172a",

		PageTitle:       "WeCastPro Mint Page",
		PageDescription: "The mint page for WeCastPro from ChrisCoCreated",
		EmbedButton:     "Mint [Free/Paid]",
		LaunchName:      "WeCastPro Mint Page",
	}
}

// AccountAssociation proves domain ownership to the host.
type AccountAssociation struct {
	Header    string `json:"header"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

// Descriptor is the "frame" object of the manifest.
type Descriptor struct {
	Version               string `json:"version"`
	Name                  string `json:"name"`
	IconURL               string `json:"iconUrl"`
	HomeURL               string `json:"homeUrl"`
	ImageURL              string `json:"imageUrl"`
	ButtonTitle           string `json:"buttonTitle"`
	SplashImageURL        string `json:"splashImageUrl"`
	SplashBackgroundColor string `json:"splashBackgroundColor"`
	WebhookURL            string `json:"webhookUrl,omitempty"`
}

// Manifest is served at /.well-known/farcaster.json.
type Manifest struct {
	AccountAssociation AccountAssociation `json:"accountAssociation"`
	Frame              Descriptor         `json:"frame"`
}

// Embed is the JSON carried by the fc:frame meta tag of the landing page.
type Embed struct {
	Version  string      `json:"version"`
	ImageURL string      `json:"imageUrl"`
	Button   EmbedButton `json:"button"`
}

type EmbedButton struct {
	Title  string       `json:"title"`
	Action LaunchAction `json:"action"`
}

type LaunchAction struct {
	Type                  string `json:"type"`
	Name                  string `json:"name"`
	URL                   string `json:"url"`
	SplashImageURL        string `json:"splashImageUrl"`
	SplashBackgroundColor string `json:"splashBackgroundColor"`
}

// URL joins AppURL and p with exactly one slash.
func (s Settings) URL(p string) string {
	base := strings.TrimRight(strings.TrimSpace(s.AppURL), "/")
	p = strings.TrimSpace(p)
	if p == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(p, "/")
}

func (s Settings) Manifest() Manifest {
	return Manifest{
		AccountAssociation: AccountAssociation{
			Header:    s.AssociationHeader,
			Payload:   s.AssociationPayload,
			Signature: s.AssociationSignature,
		},
		Frame: Descriptor{
			Version:               "1",
			Name:                  s.Name,
			IconURL:               s.URL(s.IconPath),
			HomeURL:               s.URL(""),
			ImageURL:              s.URL(s.ImagePath),
			ButtonTitle:           s.ButtonTitle,
			SplashImageURL:        s.URL(s.SplashImagePath),
			SplashBackgroundColor: s.SplashBackgroundColor,
		},
	}
}

func (s Settings) Embed() Embed {
	return Embed{
		Version:  "next",
		ImageURL: s.URL(s.ImagePath),
		Button: EmbedButton{
			Title: s.EmbedButton,
			Action: LaunchAction{
				Type:                  "launch_frame",
				Name:                  s.LaunchName,
				URL:                   s.URL(""),
				SplashImageURL:        s.URL(s.SplashImagePath),
				SplashBackgroundColor: s.SplashBackgroundColor,
			},
		},
	}
}
