package wifi

import (
	"fmt"
	"time"
)

// Fingerprint is the wireless scan stored for one object.
// It is immutable; re-capture replaces it as a whole.
type Fingerprint struct {
	id         string
	objectID   string
	capturedAt time.Time
	networks   []Network
	roomLabel  string
}

// NewFingerprint validates and creates a Fingerprint.
// An empty network list is allowed: it simply never matches.
func NewFingerprint(id, objectID string, capturedAt time.Time, networks []Network, roomLabel string) (Fingerprint, error) {
	if id == "" {
		return Fingerprint{}, fmt.Errorf("fingerprint ID is required")
	}
	if objectID == "" {
		return Fingerprint{}, fmt.Errorf("object ID is required")
	}
	nets := make([]Network, len(networks))
	copy(nets, networks)
	return Fingerprint{
		id:         id,
		objectID:   objectID,
		capturedAt: capturedAt.UTC(),
		networks:   nets,
		roomLabel:  roomLabel,
	}, nil
}

// ReconstructFingerprint creates a Fingerprint without validation (storage hydration).
func ReconstructFingerprint(id, objectID string, capturedAt time.Time, networks []Network, roomLabel string) Fingerprint {
	return Fingerprint{id: id, objectID: objectID, capturedAt: capturedAt, networks: networks, roomLabel: roomLabel}
}

// ID returns the fingerprint identifier.
func (f *Fingerprint) ID() string { return f.id }

// ObjectID returns the owning object.
func (f *Fingerprint) ObjectID() string { return f.objectID }

// CapturedAt returns the capture time.
func (f *Fingerprint) CapturedAt() time.Time { return f.capturedAt }

// Networks returns the stored scan.
func (f *Fingerprint) Networks() []Network { return f.networks }

// RoomLabel returns the optional room label, empty when not set.
func (f *Fingerprint) RoomLabel() string { return f.roomLabel }

// Score compares a live scan against this fingerprint.
func (f *Fingerprint) Score(live []Network) float64 {
	return Similarity(live, f.networks)
}
