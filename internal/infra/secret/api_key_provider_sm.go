// internal/infra/secret/api_key_provider_sm.go
package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
)

var (
	ErrNotConfigured = errors.New("secret: provider not configured")
	ErrEmptyPayload  = errors.New("secret: empty payload")
)

// versionAccessor is the subset of *secretmanager.Client used here.
type versionAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

var _ versionAccessor = (*secretmanager.Client)(nil)

// APIKeyProviderSM reads an API key (e.g. the hub key) from Secret Manager.
type APIKeyProviderSM struct {
	sm        versionAccessor
	projectID string
}

func NewAPIKeyProviderSM(sm *secretmanager.Client, projectID string) *APIKeyProviderSM {
	if sm == nil {
		return &APIKeyProviderSM{projectID: strings.TrimSpace(projectID)}
	}
	return &APIKeyProviderSM{sm: sm, projectID: strings.TrimSpace(projectID)}
}

// APIKey resolves ref (short secret name or full version resource) and returns
// the trimmed payload.
func (p *APIKeyProviderSM) APIKey(ctx context.Context, ref string) (string, error) {
	if p == nil || p.sm == nil {
		return "", ErrNotConfigured
	}
	name, err := SecretVersionName(p.projectID, ref)
	if err != nil {
		return "", err
	}

	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("secret: AccessSecretVersion failed (%s): %w", name, err)
	}
	if resp == nil || resp.Payload == nil {
		return "", fmt.Errorf("%w (%s)", ErrEmptyPayload, name)
	}
	key := strings.TrimSpace(string(resp.Payload.Data))
	if key == "" {
		return "", fmt.Errorf("%w (%s)", ErrEmptyPayload, name)
	}
	return key, nil
}

// SecretVersionName expands a short name to
// projects/<projectID>/secrets/<name>/versions/latest. Full resource names
// (projects/...) pass through; "projects/p/secrets/s" gets /versions/latest.
func SecretVersionName(projectID, ref string) (string, error) {
	ref = strings.Trim(strings.TrimSpace(ref), "/")
	if ref == "" {
		return "", errors.New("secret: ref is empty")
	}
	if strings.HasPrefix(ref, "projects/") {
		if strings.Contains(ref, "/versions/") {
			return ref, nil
		}
		return ref + "/versions/latest", nil
	}

	prj := strings.TrimSpace(projectID)
	if prj == "" {
		return "", errors.New("secret: projectID is empty")
	}
	return "projects/" + prj + "/secrets/" + ref + "/versions/latest", nil
}
