package anchor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	domanchor "github.com/kailas-cloud/anchor/internal/domain/anchor"
	"github.com/kailas-cloud/anchor/internal/domain/geo"
)

// anchorToHash converts a domain Anchor to a map for HSET.
func anchorToHash(a domanchor.Anchor) map[string]string {
	tags, _ := json.Marshal(a.Tags()) // []string never fails
	pos := a.Position()
	indoor := "0"
	if a.Indoor() {
		indoor = "1"
	}
	return map[string]string{
		"id":          a.ID(),
		"label":       a.Label(),
		"description": a.Description(),
		"lat":         formatFloat(pos.Latitude),
		"lng":         formatFloat(pos.Longitude),
		"accuracy":    formatFloat(pos.Accuracy),
		"altitude":    formatOptional(a.Altitude()),
		"heading":     formatOptional(a.Heading()),
		"image_ref":   a.ImageRef(),
		"tags_json":   string(tags),
		"indoor":      indoor,
		"created_at":  a.CreatedAt().Format(time.RFC3339Nano),
		"updated_at":  a.UpdatedAt().Format(time.RFC3339Nano),
	}
}

// anchorFromHash hydrates a domain Anchor from an HGETALL result map.
func anchorFromHash(m map[string]string) (domanchor.Anchor, error) {
	lat, err := strconv.ParseFloat(m["lat"], 64)
	if err != nil {
		return domanchor.Anchor{}, fmt.Errorf("invalid lat: %w", err)
	}
	lng, err := strconv.ParseFloat(m["lng"], 64)
	if err != nil {
		return domanchor.Anchor{}, fmt.Errorf("invalid lng: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, m["created_at"])
	if err != nil {
		return domanchor.Anchor{}, fmt.Errorf("invalid created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, m["updated_at"])
	if err != nil {
		updatedAt = createdAt
	}

	var tags []string
	if raw := m["tags_json"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			return domanchor.Anchor{}, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if tags == nil {
		tags = []string{}
	}

	accuracy, _ := strconv.ParseFloat(m["accuracy"], 64)
	return domanchor.Reconstruct(m["id"], domanchor.Params{
		Label:       m["label"],
		Description: m["description"],
		Position:    geo.Point{Latitude: lat, Longitude: lng, Accuracy: accuracy},
		Altitude:    parseOptional(m["altitude"]),
		Heading:     parseOptional(m["heading"]),
		ImageRef:    m["image_ref"],
		Tags:        tags,
		Indoor:      m["indoor"] == "1",
	}, createdAt, updatedAt), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func parseOptional(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
