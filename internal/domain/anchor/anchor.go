// Package anchor holds the georeferenced point objects are placed around.
package anchor

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/anchor/internal/domain/geo"
)

// Params are the caller-supplied fields of a new anchor.
type Params struct {
	Label       string
	Description string
	Position    geo.Point
	Altitude    *float64
	Heading     *float64
	ImageRef    string
	Tags        []string
	Indoor      bool
}

// Anchor is a tagged place. Position and heading are read-only to guidance.
type Anchor struct {
	id          string
	label       string
	description string
	position    geo.Point
	altitude    *float64
	heading     *float64
	imageRef    string
	tags        []string
	indoor      bool
	createdAt   time.Time
	updatedAt   time.Time
}

// New validates and creates an Anchor. Heading is normalized to [0,360).
func New(id string, p Params, now time.Time) (Anchor, error) {
	if id == "" {
		return Anchor{}, fmt.Errorf("anchor ID is required")
	}
	if !geo.ValidateCoordinates(p.Position.Latitude, p.Position.Longitude) {
		return Anchor{}, fmt.Errorf("gps coordinates out of range")
	}
	now = now.UTC()
	return Anchor{
		id:          id,
		label:       p.Label,
		description: p.Description,
		position:    geo.Point{Latitude: p.Position.Latitude, Longitude: p.Position.Longitude, Accuracy: p.Position.Accuracy},
		altitude:    p.Altitude,
		heading:     normalized(p.Heading),
		imageRef:    p.ImageRef,
		tags:        cloneTags(p.Tags),
		indoor:      p.Indoor,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct creates an Anchor without validation (storage hydration).
func Reconstruct(id string, p Params, createdAt, updatedAt time.Time) Anchor {
	return Anchor{
		id: id, label: p.Label, description: p.Description,
		position: p.Position, altitude: p.Altitude, heading: p.Heading,
		imageRef: p.ImageRef, tags: p.Tags, indoor: p.Indoor,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ID returns the anchor identifier.
func (a *Anchor) ID() string { return a.id }

// Label returns the display label.
func (a *Anchor) Label() string { return a.label }

// Description returns the free-form description.
func (a *Anchor) Description() string { return a.description }

// Position returns the stabilized GPS position.
func (a *Anchor) Position() geo.Point { return a.position }

// Altitude returns the GPS altitude, nil when unknown.
func (a *Anchor) Altitude() *float64 { return a.altitude }

// Heading returns the capture heading, nil when unknown.
func (a *Anchor) Heading() *float64 { return a.heading }

// ImageRef returns the reference image location.
func (a *Anchor) ImageRef() string { return a.imageRef }

// Tags returns the user tags.
func (a *Anchor) Tags() []string { return a.tags }

// Indoor reports whether the anchor was captured indoors.
func (a *Anchor) Indoor() bool { return a.indoor }

// CreatedAt returns the creation time.
func (a *Anchor) CreatedAt() time.Time { return a.createdAt }

// UpdatedAt returns the last modification time.
func (a *Anchor) UpdatedAt() time.Time { return a.updatedAt }

// Location implements proximity.Locatable.
func (a Anchor) Location() (geo.Point, bool) { return a.position, true }

// Facing implements proximity.Locatable.
func (a Anchor) Facing() (float64, bool) {
	if a.heading == nil {
		return 0, false
	}
	return *a.heading, true
}

func normalized(h *float64) *float64 {
	if h == nil {
		return nil
	}
	v := geo.Normalize(*h)
	return &v
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
