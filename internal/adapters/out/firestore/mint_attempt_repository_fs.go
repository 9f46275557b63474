// internal/adapters/out/firestore/mint_attempt_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"

	mintdom "wecastmint/internal/domain/mint"
)

const mintAttemptsCollection = "mintAttempts"

// MintAttemptRepositoryFS implements mint.AttemptRepository using Firestore.
type MintAttemptRepositoryFS struct {
	Client *firestore.Client
}

var _ mintdom.AttemptRepository = (*MintAttemptRepositoryFS)(nil)

func NewMintAttemptRepositoryFS(client *firestore.Client) *MintAttemptRepositoryFS {
	return &MintAttemptRepositoryFS{Client: client}
}

func (r *MintAttemptRepositoryFS) Save(ctx context.Context, a mintdom.Attempt) error {
	if r == nil || r.Client == nil {
		return errors.New("firestore client is nil")
	}
	id := strings.TrimSpace(a.ID)
	if id == "" {
		return errors.New("firestore: attempt id is empty")
	}

	if _, err := r.Client.Collection(mintAttemptsCollection).Doc(id).Set(ctx, attemptToDoc(a)); err != nil {
		return fmt.Errorf("firestore: save attempt %s: %w", id, err)
	}
	return nil
}

// attemptToDoc maps the attempt explicitly so no field is dropped or renamed
// by struct-tag drift.
func attemptToDoc(a mintdom.Attempt) map[string]interface{} {
	data := map[string]interface{}{
		"variant":   string(a.Variant),
		"phase":     string(a.Phase),
		"quantity":  a.Quantity,
		"account":   strings.ToLower(strings.TrimSpace(a.Account)),
		"chainId":   int64(a.ChainID),
		"startedAt": a.StartedAt.UTC(),
	}
	if a.TxHash != "" {
		data["txHash"] = a.TxHash
	}
	if a.Error != "" {
		data["error"] = a.Error
	}
	if !a.SettledAt.IsZero() {
		data["settledAt"] = a.SettledAt.UTC()
	}
	return data
}
