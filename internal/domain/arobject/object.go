// Package arobject holds objects placed relative to an anchor.
package arobject

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/anchor/internal/domain/geo"
)

// Params are the caller-supplied fields of a new object.
type Params struct {
	AnchorID           string
	Label              string
	Description        string
	BearingFromAnchor  float64
	DistanceFromAnchor float64
	Elevation          Elevation
	CaptureHeading     float64
	CapturePosition    geo.Point
	RoomLabel          string
	PlacementHeading   *float64
	ReferencePhoto     string
}

// Object is an item placed near an anchor. Bearing, distance and elevation
// are fixed at placement.
type Object struct {
	id                 string
	anchorID           string
	label              string
	description        string
	bearingFromAnchor  float64
	distanceFromAnchor float64
	elevation          Elevation
	captureHeading     float64
	capturePosition    geo.Point
	roomLabel          string
	placementHeading   *float64
	referencePhoto     string
	createdAt          time.Time
}

// New validates and creates an Object. Headings are normalized to [0,360).
func New(id string, p Params, now time.Time) (Object, error) {
	if id == "" {
		return Object{}, fmt.Errorf("object ID is required")
	}
	if p.AnchorID == "" {
		return Object{}, fmt.Errorf("anchorId is required")
	}
	if p.Label == "" {
		return Object{}, fmt.Errorf("label is required")
	}
	if p.DistanceFromAnchor < 0 {
		return Object{}, fmt.Errorf("distanceFromAnchor must not be negative")
	}
	if p.Elevation != "" && !p.Elevation.IsValid() {
		return Object{}, fmt.Errorf("elevationHint must be one of floor, eye, overhead")
	}
	if !geo.ValidateCoordinates(p.CapturePosition.Latitude, p.CapturePosition.Longitude) {
		return Object{}, fmt.Errorf("captureGps coordinates out of range")
	}

	var placement *float64
	if p.PlacementHeading != nil {
		v := geo.Normalize(*p.PlacementHeading)
		placement = &v
	}
	return Object{
		id:                 id,
		anchorID:           p.AnchorID,
		label:              p.Label,
		description:        p.Description,
		bearingFromAnchor:  geo.Normalize(p.BearingFromAnchor),
		distanceFromAnchor: p.DistanceFromAnchor,
		elevation:          p.Elevation,
		captureHeading:     geo.Normalize(p.CaptureHeading),
		capturePosition:    geo.Point{Latitude: p.CapturePosition.Latitude, Longitude: p.CapturePosition.Longitude, Accuracy: p.CapturePosition.Accuracy},
		roomLabel:          p.RoomLabel,
		placementHeading:   placement,
		referencePhoto:     p.ReferencePhoto,
		createdAt:          now.UTC(),
	}, nil
}

// Reconstruct creates an Object without validation (storage hydration).
func Reconstruct(id string, p Params, createdAt time.Time) Object {
	return Object{
		id: id, anchorID: p.AnchorID, label: p.Label, description: p.Description,
		bearingFromAnchor: p.BearingFromAnchor, distanceFromAnchor: p.DistanceFromAnchor,
		elevation: p.Elevation, captureHeading: p.CaptureHeading, capturePosition: p.CapturePosition,
		roomLabel: p.RoomLabel, placementHeading: p.PlacementHeading, referencePhoto: p.ReferencePhoto,
		createdAt: createdAt,
	}
}

// ID returns the object identifier.
func (o *Object) ID() string { return o.id }

// AnchorID returns the owning anchor.
func (o *Object) AnchorID() string { return o.anchorID }

// Label returns the display label.
func (o *Object) Label() string { return o.label }

// Description returns the free-form description.
func (o *Object) Description() string { return o.description }

// BearingFromAnchor is the direction from the anchor to the object at capture time.
func (o *Object) BearingFromAnchor() float64 { return o.bearingFromAnchor }

// DistanceFromAnchor returns the approximate distance in meters.
func (o *Object) DistanceFromAnchor() float64 { return o.distanceFromAnchor }

// Elevation returns the vertical hint.
func (o *Object) Elevation() Elevation { return o.elevation }

// CaptureHeading returns the device heading at placement.
func (o *Object) CaptureHeading() float64 { return o.captureHeading }

// CapturePosition returns the GPS fix at placement.
func (o *Object) CapturePosition() geo.Point { return o.capturePosition }

// RoomLabel returns the room the object was placed in, empty when unknown.
func (o *Object) RoomLabel() string { return o.roomLabel }

// ReferencePhoto returns the reminder photo location.
func (o *Object) ReferencePhoto() string { return o.referencePhoto }

// CreatedAt returns the placement time.
func (o *Object) CreatedAt() time.Time { return o.createdAt }

// StoredPlacementHeading returns the explicitly recorded placement heading, nil when unset.
func (o *Object) StoredPlacementHeading() *float64 { return o.placementHeading }

// PlacementHeading returns the heading used for directional hints.
// It falls back to the capture heading.
func (o *Object) PlacementHeading() float64 {
	if o.placementHeading != nil {
		return *o.placementHeading
	}
	return o.captureHeading
}

// Location implements proximity.Locatable.
func (o Object) Location() (geo.Point, bool) { return o.capturePosition, true }

// Facing implements proximity.Locatable.
func (o Object) Facing() (float64, bool) { return o.captureHeading, true }

// WithRoomContext returns a copy with the room label and placement heading
// replaced when supplied. Empty room and nil heading keep the stored values.
func (o Object) WithRoomContext(room string, heading *float64) Object {
	out := o
	if room != "" {
		out.roomLabel = room
	}
	if heading != nil {
		v := geo.Normalize(*heading)
		out.placementHeading = &v
	}
	return out
}
