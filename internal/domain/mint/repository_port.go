// internal/domain/mint/repository_port.go
package mint

import "context"

// AttemptRepository persists settled attempts for later lookup (audit log).
// Implementations live in adapters/out (Firestore).
type AttemptRepository interface {
	// Save upserts the attempt under a.ID.
	Save(ctx context.Context, a Attempt) error
}
