// Package magnetic models the indoor magnetic-field signature recorded at an anchor.
package magnetic

import (
	"fmt"
	"math"
	"time"
)

// Vector3 is a magnetometer reading in microtesla.
type Vector3 struct {
	X, Y, Z float64
}

// Orientation is the device attitude at capture time in degrees.
type Orientation struct {
	Alpha float64
	Beta  float64
	Gamma float64
}

// Params holds the measured values of a new fingerprint.
type Params struct {
	Magnitude   *float64
	Vector      *Vector3
	Inclination *float64
	Orientation *Orientation
	SampleCount *int
}

// Fingerprint is the magnetic signature of one anchor. An anchor has at most one.
type Fingerprint struct {
	id          string
	anchorID    string
	createdAt   time.Time
	magnitude   float64
	vector      Vector3
	inclination *float64
	orientation *Orientation
	sampleCount *int
}

// New validates and creates a Fingerprint.
func New(id, anchorID string, p Params, now time.Time) (Fingerprint, error) {
	if id == "" {
		return Fingerprint{}, fmt.Errorf("fingerprint ID is required")
	}
	if anchorID == "" {
		return Fingerprint{}, fmt.Errorf("anchorId is required")
	}
	if p.Magnitude == nil || p.Vector == nil {
		return Fingerprint{}, fmt.Errorf("magnitude and vector (x, y, z) are required")
	}
	if !finite(*p.Magnitude) || *p.Magnitude < 0 {
		return Fingerprint{}, fmt.Errorf("magnitude must be a non-negative number")
	}
	if !finite(p.Vector.X) || !finite(p.Vector.Y) || !finite(p.Vector.Z) {
		return Fingerprint{}, fmt.Errorf("vector components must be finite")
	}
	if p.Inclination != nil && (!finite(*p.Inclination) || math.Abs(*p.Inclination) > 90) {
		return Fingerprint{}, fmt.Errorf("inclination must be in [-90,90]")
	}
	if p.SampleCount != nil && *p.SampleCount < 1 {
		return Fingerprint{}, fmt.Errorf("sampleCount must be positive")
	}

	return Fingerprint{
		id:          id,
		anchorID:    anchorID,
		createdAt:   now.UTC(),
		magnitude:   *p.Magnitude,
		vector:      *p.Vector,
		inclination: p.Inclination,
		orientation: p.Orientation,
		sampleCount: p.SampleCount,
	}, nil
}

// Reconstruct creates a Fingerprint without validation (storage hydration).
func Reconstruct(id, anchorID string, createdAt time.Time, magnitude float64, v Vector3,
	inclination *float64, orientation *Orientation, sampleCount *int,
) Fingerprint {
	return Fingerprint{
		id: id, anchorID: anchorID, createdAt: createdAt, magnitude: magnitude, vector: v,
		inclination: inclination, orientation: orientation, sampleCount: sampleCount,
	}
}

// ID returns the fingerprint identifier.
func (f *Fingerprint) ID() string { return f.id }
func (f *Fingerprint) AnchorID() string { return f.anchorID }
func (f *Fingerprint) CreatedAt() time.Time { return f.createdAt }
func (f *Fingerprint) Magnitude() float64 { return f.magnitude }
func (f *Fingerprint) Vector() Vector3 { return f.vector }
// Inclination is the field dip angle in degrees, nil when not measured.
func (f *Fingerprint) Inclination() *float64 { return f.inclination }
func (f *Fingerprint) Orientation() *Orientation { return f.orientation }
func (f *Fingerprint) SampleCount() *int { return f.sampleCount }

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
