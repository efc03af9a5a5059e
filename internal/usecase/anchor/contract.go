package anchor

import (
	"context"

	domanchor "github.com/kailas-cloud/anchor/internal/domain/anchor"
	domobj "github.com/kailas-cloud/anchor/internal/domain/arobject"
)

// Repository defines the storage contract for anchors.
type Repository interface {
	Save(ctx context.Context, a domanchor.Anchor) error
	Get(ctx context.Context, id string) (domanchor.Anchor, error)
	List(ctx context.Context) ([]domanchor.Anchor, error)
	Delete(ctx context.Context, id string) error
}

// ObjectRepository is the slice of object storage the delete cascade needs.
type ObjectRepository interface {
	ListByAnchor(ctx context.Context, anchorID string) ([]domobj.Object, error)
	Delete(ctx context.Context, id string) error
	DropAnchorIndex(ctx context.Context, anchorID string) error
}

// FingerprintRepository removes fingerprints of cascaded objects.
type FingerprintRepository interface {
	DeleteMany(ctx context.Context, objectIDs []string) error
}

// VectorRepository removes approach vectors of a deleted anchor.
type VectorRepository interface {
	DeleteByAnchor(ctx context.Context, anchorID string) error
}

// MagneticRepository removes the magnetic fingerprint of a deleted anchor.
type MagneticRepository interface {
	DeleteByAnchor(ctx context.Context, anchorID string) error
}
