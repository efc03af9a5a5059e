package approach

import (
	"context"

	domapproach "github.com/kailas-cloud/anchor/internal/domain/approach"
)

// Repository defines the storage contract for approach vectors.
type Repository interface {
	Create(ctx context.Context, v domapproach.Vector) error
	Get(ctx context.Context, id string) (domapproach.Vector, error)
	List(ctx context.Context) ([]domapproach.Vector, error)
	ListByAnchor(ctx context.Context, anchorID string) ([]domapproach.Vector, error)
	Delete(ctx context.Context, id string) error
}

// AnchorChecker verifies the target anchor exists.
type AnchorChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}
