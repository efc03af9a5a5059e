package arobject

import (
	"context"

	domobj "github.com/kailas-cloud/anchor/internal/domain/arobject"
)

// Repository defines the storage contract for AR objects.
type Repository interface {
	Save(ctx context.Context, o domobj.Object) error
	Get(ctx context.Context, id string) (domobj.Object, error)
	List(ctx context.Context) ([]domobj.Object, error)
	ListByAnchor(ctx context.Context, anchorID string) ([]domobj.Object, error)
	Delete(ctx context.Context, id string) error
}

// AnchorChecker verifies the parent anchor exists.
type AnchorChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// FingerprintRemover drops the fingerprint of a deleted object.
type FingerprintRemover interface {
	Delete(ctx context.Context, objectID string) error
}
