package direction

import (
	"fmt"
	"math"
	"strconv"

	"github.com/kailas-cloud/anchor/internal/domain/geo"
)

// State is the rotation needed to face a target.
type State string

// Geodesic states.
const (
	Aligned     State = "ALIGNED"
	RotateLeft  State = "ROTATE_LEFT"
	RotateRight State = "ROTATE_RIGHT"
	Behind      State = "BEHIND"
)

// Proximity is a coarse distance bucket.
type Proximity string

// Proximity buckets.
const (
	VeryClose Proximity = "VERY_CLOSE"
	Close     Proximity = "CLOSE"
	Near      Proximity = "NEAR"
	Far       Proximity = "FAR"
)

// DefaultTolerance is the alignment window in degrees on either side.
const DefaultTolerance = 5.0

// atAnchorMeters is the distance under which the anchor leg is omitted from hints.
const atAnchorMeters = 3.0

// Steering is a geodesic guidance result for one target.
type Steering struct {
	State         State
	Delta         float64 // signed, (-180,180]
	TargetHeading float64 // [0,360)
	Instruction   string
}

// Steer classifies the rotation from current to target heading.
// A non-positive tolerance falls back to DefaultTolerance.
func Steer(current, target, tolerance float64) Steering {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	target = geo.Normalize(target)
	delta := geo.AngularDelta(current, target)

	s := Steering{Delta: delta, TargetHeading: target}
	switch abs := math.Abs(delta); {
	case abs <= tolerance:
		s.State = Aligned
	case abs > behindDegrees:
		s.State = Behind
	case delta < 0:
		s.State = RotateLeft
	default:
		s.State = RotateRight
	}
	s.Instruction = Instruction(s.State, delta)
	return s
}

// Instruction renders a human instruction embedding the rounded angle.
func Instruction(state State, delta float64) string {
	switch state {
	case Aligned:
		return "Aligned, look ahead"
	case Behind:
		return "Object is behind you, turn around"
	case RotateLeft:
		return fmt.Sprintf("Rotate left %d°", int(math.Abs(roundHalfUp(delta))))
	default:
		return fmt.Sprintf("Rotate right %d°", int(roundHalfUp(delta)))
	}
}

// ClassifyDistance buckets a raw distance in meters.
func ClassifyDistance(meters float64) Proximity {
	switch {
	case meters <= 5:
		return VeryClose
	case meters <= 20:
		return Close
	case meters <= 50:
		return Near
	default:
		return Far
	}
}

// DistanceHint describes the walk: to the anchor first, then out to the object.
// A zero object distance is shown as 1 m.
func DistanceHint(toAnchor, objectFromAnchor float64) string {
	if objectFromAnchor <= 0 {
		objectFromAnchor = 1
	}
	obj := strconv.FormatFloat(objectFromAnchor, 'f', -1, 64)
	if toAnchor < atAnchorMeters {
		return fmt.Sprintf("about %sm ahead", obj)
	}
	return fmt.Sprintf("%dm to anchor, then %sm ahead", int(roundHalfUp(toAnchor)), obj)
}

// TargetHeading is the heading a user at user must face to look at an object
// placed bearingFromAnchor degrees from the anchor.
// The object offset is applied on top of the bearing from the user to the anchor.
func TargetHeading(user, anchor geo.Point, bearingFromAnchor float64) float64 {
	return geo.Normalize(geo.Bearing(user, anchor) + bearingFromAnchor)
}

// Round returns v rounded half up to an int, as shown to users.
func Round(v float64) int {
	return int(roundHalfUp(v))
}
