package anchor

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/anchor/internal/domain/geo"
)

// Patch is a partial update. Nil fields keep the stored value.
type Patch struct {
	Label       *string
	Description *string
	Latitude    *float64
	Longitude   *float64
	Accuracy    *float64
	Altitude    *float64
	Heading     *float64
	ImageRef    *string
	Tags        []string // nil keeps, empty clears
	Indoor      *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Label == nil && p.Description == nil && p.Latitude == nil && p.Longitude == nil &&
		p.Accuracy == nil && p.Altitude == nil && p.Heading == nil && p.ImageRef == nil &&
		p.Tags == nil && p.Indoor == nil
}

// Apply returns a copy of a with the patch applied and updatedAt set to now.
func (a Anchor) Apply(p Patch, now time.Time) (Anchor, error) {
	out := a
	if p.Label != nil {
		out.label = *p.Label
	}
	if p.Description != nil {
		out.description = *p.Description
	}
	if p.Latitude != nil {
		out.position.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		out.position.Longitude = *p.Longitude
	}
	if p.Accuracy != nil {
		out.position.Accuracy = *p.Accuracy
	}
	if !geo.ValidateCoordinates(out.position.Latitude, out.position.Longitude) {
		return Anchor{}, fmt.Errorf("gps coordinates out of range")
	}
	if p.Altitude != nil {
		out.altitude = p.Altitude
	}
	if p.Heading != nil {
		out.heading = normalized(p.Heading)
	}
	if p.ImageRef != nil {
		out.imageRef = *p.ImageRef
	}
	if p.Tags != nil {
		out.tags = cloneTags(p.Tags)
	}
	if p.Indoor != nil {
		out.indoor = *p.Indoor
	}
	out.updatedAt = now.UTC()
	return out, nil
}
