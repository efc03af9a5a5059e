package magnetic

import (
	"context"

	dommag "github.com/kailas-cloud/anchor/internal/domain/magnetic"
)

// Repository defines the storage contract for magnetic fingerprints.
type Repository interface {
	Replace(ctx context.Context, fp dommag.Fingerprint) error
	Get(ctx context.Context, id string) (dommag.Fingerprint, error)
	GetByAnchor(ctx context.Context, anchorID string) (dommag.Fingerprint, error)
	List(ctx context.Context) ([]dommag.Fingerprint, error)
	Delete(ctx context.Context, id string) error
}

// AnchorChecker verifies the anchor exists.
type AnchorChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}
