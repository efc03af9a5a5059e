// Package direction turns headings into user instructions.
//
// Two strategies live here. FromSignal works from WiFi confidence and the
// heading the object was placed at. Steer works from GPS and the object's
// bearing from its anchor. They answer different questions and are picked
// by which inputs the caller has.
package direction

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/anchor/internal/domain/geo"
)

// Action is the movement suggested by a signal-based hint.
type Action string

// Signal-based actions.
const (
	Forward    Action = "FORWARD"
	TurnLeft   Action = "TURN_LEFT"
	TurnRight  Action = "TURN_RIGHT"
	TurnAround Action = "TURN_AROUND"
	Scan       Action = "SCAN"
	Explore    Action = "EXPLORE"
)

const (
	minConfidence    = 0.2
	scanConfidence   = 0.6
	aheadDegrees     = 15.0
	behindDegrees    = 135.0
	exploreHint      = "Move around to find signal"
	scanHint         = "Look around this area"
	moveForwardHint  = "Move forward and scan"
	aheadHint        = "Object likely ahead"
	behindHint       = "Object likely behind you"
	leftHintFormat   = "Object likely to your left (%d°)"
	rightHintFormat  = "Object likely to your right (%d°)"
	unregisteredHint = "Move around to explore"
)

// Hint is a signal-based direction suggestion.
type Hint struct {
	Text            string
	Action          Action
	RelativeBearing *float64 // nil when no heading comparison was possible
	Confidence      float64
}

// FromSignal builds a hint from the live heading, the placement heading and
// the smoothed confidence. Below 0.2 confidence headings are ignored.
func FromSignal(current, placement *float64, confidence float64) Hint {
	if confidence < minConfidence {
		return Hint{Text: exploreHint, Action: Explore, Confidence: confidence}
	}
	if current == nil || placement == nil {
		if confidence > scanConfidence {
			return Hint{Text: scanHint, Action: Scan, Confidence: confidence}
		}
		return Hint{Text: moveForwardHint, Action: Forward, Confidence: confidence}
	}

	delta := geo.AngularDelta(*current, *placement)
	h := Hint{RelativeBearing: &delta, Confidence: confidence}
	switch abs := math.Abs(delta); {
	case abs < aheadDegrees:
		h.Text, h.Action = aheadHint, Forward
	case abs > behindDegrees:
		h.Text, h.Action = behindHint, TurnAround
	case delta < 0:
		h.Text, h.Action = fmt.Sprintf(leftHintFormat, int(math.Abs(roundHalfUp(delta)))), TurnLeft
	default:
		h.Text, h.Action = fmt.Sprintf(rightHintFormat, int(roundHalfUp(delta))), TurnRight
	}
	return h
}

// Unregistered is the hint returned for an object the store does not know.
func Unregistered() Hint {
	return Hint{Text: unregisteredHint, Action: Explore}
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
