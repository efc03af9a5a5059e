package arobject

import "fmt"

// Patch is a partial update of the mutable fields. Bearing is fixed at placement.
type Patch struct {
	Label              *string
	Description        *string
	DistanceFromAnchor *float64
	Elevation          *Elevation
	ReferencePhoto     *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Label == nil && p.Description == nil && p.DistanceFromAnchor == nil &&
		p.Elevation == nil && p.ReferencePhoto == nil
}

// Apply returns a copy of o with the patch applied.
func (o Object) Apply(p Patch) (Object, error) {
	out := o
	if p.Label != nil {
		if *p.Label == "" {
			return Object{}, fmt.Errorf("label must not be empty")
		}
		out.label = *p.Label
	}
	if p.Description != nil {
		out.description = *p.Description
	}
	if p.DistanceFromAnchor != nil {
		if *p.DistanceFromAnchor < 0 {
			return Object{}, fmt.Errorf("distanceFromAnchor must not be negative")
		}
		out.distanceFromAnchor = *p.DistanceFromAnchor
	}
	if p.Elevation != nil {
		if *p.Elevation != "" && !p.Elevation.IsValid() {
			return Object{}, fmt.Errorf("elevationHint must be one of floor, eye, overhead")
		}
		out.elevation = *p.Elevation
	}
	if p.ReferencePhoto != nil {
		out.referencePhoto = *p.ReferencePhoto
	}
	return out, nil
}
