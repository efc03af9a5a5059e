package guidance

import (
	"context"

	domanchor "github.com/kailas-cloud/anchor/internal/domain/anchor"
	domobj "github.com/kailas-cloud/anchor/internal/domain/arobject"
	"github.com/kailas-cloud/anchor/internal/domain/smoothing"
	"github.com/kailas-cloud/anchor/internal/domain/wifi"
)

// ObjectReader loads AR objects.
type ObjectReader interface {
	Get(ctx context.Context, id string) (domobj.Object, error)
	List(ctx context.Context) ([]domobj.Object, error)
	ListByAnchor(ctx context.Context, anchorID string) ([]domobj.Object, error)
}

// AnchorReader loads the anchors objects hang off.
type AnchorReader interface {
	GetMany(ctx context.Context, ids []string) (map[string]domanchor.Anchor, error)
}

// FingerprintReader loads the stored WiFi fingerprint of an object.
type FingerprintReader interface {
	Get(ctx context.Context, objectID string) (wifi.Fingerprint, error)
}

// SessionTracker smooths readings per (object, session) key.
type SessionTracker interface {
	Update(objectID, sessionID string, similarity float64, room string) smoothing.Result
	Reset(objectID, sessionID string) int
}
