// Package phase maps smoothed similarity onto coarse guidance phases.
package phase

// Phase is a coarse guidance stage.
type Phase string

// Phases ordered from farthest to closest.
const (
	Far         Phase = "FAR"
	Approaching Phase = "APPROACHING"
	Near        Phase = "NEAR"
	Arrived     Phase = "ARRIVED"
)

// Lower bounds of each phase on smoothed similarity.
const (
	ArrivedThreshold     = 0.85
	NearThreshold        = 0.6
	ApproachingThreshold = 0.3
)

// Classify returns the phase for a smoothed similarity.
func Classify(similarity float64) Phase {
	switch {
	case similarity >= ArrivedThreshold:
		return Arrived
	case similarity >= NearThreshold:
		return Near
	case similarity >= ApproachingThreshold:
		return Approaching
	default:
		return Far
	}
}

// IsValid reports whether p is a known phase.
func (p Phase) IsValid() bool {
	switch p {
	case Far, Approaching, Near, Arrived:
		return true
	}
	return false
}

// Description is the user-facing sentence for the phase.
func (p Phase) Description() string {
	switch p {
	case Arrived:
		return "You're in the right spot. Look around here."
	case Near:
		return "You're in the right area. Getting close."
	case Approaching:
		return "Getting closer. Continue this direction."
	case Far:
		return "Object is in a different room."
	default:
		return "Move around to find signal."
	}
}

// ShowGhostImage reports whether the UI should overlay the reference photo.
func (p Phase) ShowGhostImage() bool { return p == Arrived || p == Near }

// ShowDirectionalArrow reports whether the UI should draw the direction arrow.
func (p Phase) ShowDirectionalArrow() bool { return p == Far || p == Approaching }
