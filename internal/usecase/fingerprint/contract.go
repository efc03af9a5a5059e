package fingerprint

import (
	"context"

	"github.com/kailas-cloud/anchor/internal/domain/wifi"
)

// Repository defines the storage contract for fingerprints.
type Repository interface {
	Replace(ctx context.Context, fp wifi.Fingerprint) error
	Get(ctx context.Context, objectID string) (wifi.Fingerprint, error)
	Delete(ctx context.Context, objectID string) error
}

// ObjectUpdater checks the owning object and records its room context.
type ObjectUpdater interface {
	Exists(ctx context.Context, id string) (bool, error)
	SetRoomContext(ctx context.Context, id, room string, heading *float64) error
}
