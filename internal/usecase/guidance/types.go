package guidance

import (
	domobj "github.com/kailas-cloud/anchor/internal/domain/arobject"
	"github.com/kailas-cloud/anchor/internal/domain/direction"
	"github.com/kailas-cloud/anchor/internal/domain/geo"
	"github.com/kailas-cloud/anchor/internal/domain/phase"
	"github.com/kailas-cloud/anchor/internal/domain/wifi"
)

// UnknownRoom is reported when no room label is known or confirmed.
const UnknownRoom = "Unknown"

// Request asks for signal-based guidance toward one object.
type Request struct {
	TargetObjectID string
	Networks       []wifi.Network // may be empty
	Heading        *float64
	SessionID      string
}

// RoomMatch compares the target room with the confirmed current room.
type RoomMatch struct {
	TargetRoom        string
	LikelyCurrentRoom string
	Similarity        float64
}

// ObjectSummary is the part of the target object echoed in a response.
type ObjectSummary struct {
	ID             string
	Label          string
	Description    string
	Elevation      domobj.Elevation
	ReferencePhoto string
	Registered     bool
}

// Result is a full signal guidance answer.
type Result struct {
	Phase                phase.Phase
	PhaseDescription     string
	Confidence           float64 // smoothed
	RawSimilarity        float64
	Room                 RoomMatch
	Direction            direction.Hint
	Object               ObjectSummary
	ShowGhostImage       bool
	ShowDirectionalArrow bool
}

// ScanRequest asks for geodesic guidance toward every object, optionally of one anchor.
type ScanRequest struct {
	AnchorID string
	Heading  float64
	Position geo.Point
}

// ScanItem is the geodesic guidance for one object.
type ScanItem struct {
	ObjectID         string
	Label            string
	ReferencePhoto   string
	Steering         direction.Steering
	Proximity        direction.Proximity
	DistanceToAnchor float64
	DistanceHint     string
	ElevationHint    string
}

// NearbyRequest filters objects by where the user stands and faces.
// Zero radius or cone fall back to the configured gate.
type NearbyRequest struct {
	Position     geo.Point
	Heading      *float64
	RadiusMeters float64
	ConeDegrees  float64
}

// NearbyItem is an object that passed the proximity gate.
type NearbyItem struct {
	Object   domobj.Object
	Distance float64
}
