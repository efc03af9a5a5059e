package arobject

import (
	"fmt"
	"strconv"
	"time"

	domobj "github.com/kailas-cloud/anchor/internal/domain/arobject"
	"github.com/kailas-cloud/anchor/internal/domain/geo"
)

// objectToHash converts a domain Object to a map for HSET.
func objectToHash(o domobj.Object) map[string]string {
	pos := o.CapturePosition()
	placement := ""
	if h := o.StoredPlacementHeading(); h != nil {
		placement = formatFloat(*h)
	}
	return map[string]string{
		"id":                   o.ID(),
		"anchor_id":            o.AnchorID(),
		"label":                o.Label(),
		"description":          o.Description(),
		"bearing_from_anchor":  formatFloat(o.BearingFromAnchor()),
		"distance_from_anchor": formatFloat(o.DistanceFromAnchor()),
		"elevation_hint":       string(o.Elevation()),
		"capture_heading":      formatFloat(o.CaptureHeading()),
		"capture_lat":          formatFloat(pos.Latitude),
		"capture_lng":          formatFloat(pos.Longitude),
		"capture_accuracy":     formatFloat(pos.Accuracy),
		"room_label":           o.RoomLabel(),
		"placement_heading":    placement,
		"reference_photo":      o.ReferencePhoto(),
		"created_at":           o.CreatedAt().Format(time.RFC3339Nano),
	}
}

// objectFromHash hydrates a domain Object from an HGETALL result map.
func objectFromHash(m map[string]string) (domobj.Object, error) {
	required := []string{"bearing_from_anchor", "capture_heading", "capture_lat", "capture_lng"}
	nums := make(map[string]float64, len(required))
	for _, f := range required {
		v, err := strconv.ParseFloat(m[f], 64)
		if err != nil {
			return domobj.Object{}, fmt.Errorf("invalid %s: %w", f, err)
		}
		nums[f] = v
	}
	createdAt, err := time.Parse(time.RFC3339Nano, m["created_at"])
	if err != nil {
		return domobj.Object{}, fmt.Errorf("invalid created_at: %w", err)
	}

	distance, _ := strconv.ParseFloat(m["distance_from_anchor"], 64)
	accuracy, _ := strconv.ParseFloat(m["capture_accuracy"], 64)

	var placement *float64
	if raw := m["placement_heading"]; raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			placement = &v
		}
	}

	return domobj.Reconstruct(m["id"], domobj.Params{
		AnchorID:           m["anchor_id"],
		Label:              m["label"],
		Description:        m["description"],
		BearingFromAnchor:  nums["bearing_from_anchor"],
		DistanceFromAnchor: distance,
		Elevation:          domobj.Elevation(m["elevation_hint"]),
		CaptureHeading:     nums["capture_heading"],
		CapturePosition: geo.Point{
			Latitude:  nums["capture_lat"],
			Longitude: nums["capture_lng"],
			Accuracy:  accuracy,
		},
		RoomLabel:        m["room_label"],
		PlacementHeading: placement,
		ReferencePhoto:   m["reference_photo"],
	}, createdAt), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
