// Package proximity narrows a candidate set down to what the user is near
// and facing.
package proximity

import "github.com/kailas-cloud/anchor/internal/domain/geo"

const (
	// DefaultRadiusMeters is the GPS filter radius used when none is configured.
	DefaultRadiusMeters = 50.0
	// DefaultConeDegrees is the full width of the heading cone.
	DefaultConeDegrees = 90.0
)

// Locatable is anything the gate can filter.
type Locatable interface {
	// Location returns the candidate position; ok is false when unknown.
	Location() (geo.Point, bool)
	// Facing returns the heading the candidate was captured with; ok is false when unknown.
	Facing() (float64, bool)
}

// Options tunes the gate. Zero values fall back to the defaults.
type Options struct {
	RadiusMeters float64
	ConeDegrees  float64
}

func (o Options) withDefaults() Options {
	if o.RadiusMeters <= 0 {
		o.RadiusMeters = DefaultRadiusMeters
	}
	if o.ConeDegrees <= 0 {
		o.ConeDegrees = DefaultConeDegrees
	}
	return o
}

// ByDistance keeps candidates within radius meters of user, boundary inclusive.
// Candidates without a position are dropped.
func ByDistance[T Locatable](user geo.Point, candidates []T, radius float64) []T {
	out := make([]T, 0, len(candidates))
	for _, c := range candidates {
		p, ok := c.Location()
		if !ok {
			continue
		}
		if geo.Distance(user, p) <= radius {
			out = append(out, c)
		}
	}
	return out
}

// ByHeadingCone keeps candidates whose facing deviates from heading by at most cone/2.
// A nil heading disables the filter. A candidate with no facing counts as 180 degrees off.
func ByHeadingCone[T Locatable](heading *float64, candidates []T, cone float64) []T {
	if heading == nil {
		return candidates
	}
	half := cone / 2
	out := make([]T, 0, len(candidates))
	for _, c := range candidates {
		var facing *float64
		if f, ok := c.Facing(); ok {
			facing = &f
		}
		if geo.Deviation(heading, facing) <= half {
			out = append(out, c)
		}
	}
	return out
}

// Apply runs the distance filter then the heading-cone filter.
func Apply[T Locatable](user geo.Point, heading *float64, candidates []T, opts Options) []T {
	opts = opts.withDefaults()
	near := ByDistance(user, candidates, opts.RadiusMeters)
	return ByHeadingCone(heading, near, opts.ConeDegrees)
}
