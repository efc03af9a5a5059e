// Package approach models GPS trails recorded while walking up to an anchor.
package approach

import (
	"fmt"
	"math"
	"time"

	"github.com/kailas-cloud/anchor/internal/domain/geo"
)

// Vector is a recorded trail leading to an anchor.
type Vector struct {
	id            string
	anchorID      string
	waypoints     []geo.Point
	totalDistance float64
	avgHeading    *float64
	createdAt     time.Time
}

// New validates and creates a Vector. A nil totalDistance or avgHeading is
// derived from the waypoints; avgHeading stays nil for fewer than two waypoints.
func New(id, anchorID string, waypoints []geo.Point, totalDistance, avgHeading *float64, now time.Time) (Vector, error) {
	if id == "" {
		return Vector{}, fmt.Errorf("vector ID is required")
	}
	if anchorID == "" {
		return Vector{}, fmt.Errorf("anchorId is required")
	}
	if waypoints == nil {
		return Vector{}, fmt.Errorf("waypoints array is required")
	}
	for i, w := range waypoints {
		if !geo.ValidateCoordinates(w.Latitude, w.Longitude) {
			return Vector{}, fmt.Errorf("waypoint %d coordinates out of range", i)
		}
	}

	pts := make([]geo.Point, len(waypoints))
	copy(pts, waypoints)

	dist := TotalDistance(pts)
	if totalDistance != nil {
		dist = *totalDistance
	}
	heading := MeanHeading(pts)
	if avgHeading != nil {
		h := geo.Normalize(*avgHeading)
		heading = &h
	}

	return Vector{
		id:            id,
		anchorID:      anchorID,
		waypoints:     pts,
		totalDistance: dist,
		avgHeading:    heading,
		createdAt:     now.UTC(),
	}, nil
}

// Reconstruct creates a Vector without validation (storage hydration).
func Reconstruct(id, anchorID string, waypoints []geo.Point, totalDistance float64, avgHeading *float64, createdAt time.Time) Vector {
	return Vector{
		id: id, anchorID: anchorID, waypoints: waypoints,
		totalDistance: totalDistance, avgHeading: avgHeading, createdAt: createdAt,
	}
}

// ID returns the vector identifier.
func (v *Vector) ID() string { return v.id }

// AnchorID returns the anchor the trail leads to.
func (v *Vector) AnchorID() string { return v.anchorID }

// Waypoints returns the trail in walking order.
func (v *Vector) Waypoints() []geo.Point { return v.waypoints }

// TotalDistance returns the trail length in meters.
func (v *Vector) TotalDistance() float64 { return v.totalDistance }

// AvgHeading returns the mean walking direction, nil when unknown.
func (v *Vector) AvgHeading() *float64 { return v.avgHeading }

// CreatedAt returns the recording time.
func (v *Vector) CreatedAt() time.Time { return v.createdAt }

// TotalDistance sums the haversine legs of a trail.
func TotalDistance(pts []geo.Point) float64 {
	var sum float64
	for i := 1; i < len(pts); i++ {
		sum += geo.Distance(pts[i-1], pts[i])
	}
	return sum
}

// MeanHeading is the circular mean of leg bearings, skipping zero-length legs.
// It returns nil when no leg has a direction.
func MeanHeading(pts []geo.Point) *float64 {
	var sx, sy float64
	legs := 0
	for i := 1; i < len(pts); i++ {
		if geo.Distance(pts[i-1], pts[i]) == 0 {
			continue
		}
		b := geo.Bearing(pts[i-1], pts[i]) * math.Pi / 180
		sx += math.Cos(b)
		sy += math.Sin(b)
		legs++
	}
	if legs == 0 || (sx == 0 && sy == 0) {
		return nil
	}
	h := geo.Normalize(math.Atan2(sy, sx) * 180 / math.Pi)
	return &h
}
