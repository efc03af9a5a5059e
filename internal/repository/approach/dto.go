package approach

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	domapproach "github.com/kailas-cloud/anchor/internal/domain/approach"
	"github.com/kailas-cloud/anchor/internal/domain/geo"
)

// waypointRow is the JSON-serializable representation of a trail point.
type waypointRow struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  float64   `json:"accuracy"`
	Heading   *float64  `json:"heading,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func vectorToHash(v domapproach.Vector) (map[string]string, error) {
	rows := make([]waypointRow, len(v.Waypoints()))
	for i, w := range v.Waypoints() {
		rows[i] = waypointRow{Lat: w.Latitude, Lng: w.Longitude, Accuracy: w.Accuracy, Heading: w.Heading, Timestamp: w.Timestamp}
	}
	waypointsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal waypoints: %w", err)
	}
	avg := ""
	if h := v.AvgHeading(); h != nil {
		avg = strconv.FormatFloat(*h, 'f', -1, 64)
	}
	return map[string]string{
		"id":             v.ID(),
		"anchor_id":      v.AnchorID(),
		"created_at":     v.CreatedAt().Format(time.RFC3339Nano),
		"waypoints_json": string(waypointsJSON),
		"total_distance": strconv.FormatFloat(v.TotalDistance(), 'f', -1, 64),
		"avg_heading":    avg,
	}, nil
}

func vectorFromHash(m map[string]string) (domapproach.Vector, error) {
	var rows []waypointRow
	if err := json.Unmarshal([]byte(m["waypoints_json"]), &rows); err != nil {
		return domapproach.Vector{}, fmt.Errorf("unmarshal waypoints: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, m["created_at"])
	if err != nil {
		return domapproach.Vector{}, fmt.Errorf("invalid created_at: %w", err)
	}
	total, _ := strconv.ParseFloat(m["total_distance"], 64)

	var avg *float64
	if raw := m["avg_heading"]; raw != "" {
		if h, err := strconv.ParseFloat(raw, 64); err == nil {
			avg = &h
		}
	}

	points := make([]geo.Point, len(rows))
	for i, r := range rows {
		points[i] = geo.Point{Latitude: r.Lat, Longitude: r.Lng, Accuracy: r.Accuracy, Heading: r.Heading, Timestamp: r.Timestamp}
	}
	return domapproach.Reconstruct(m["id"], m["anchor_id"], points, total, avg, createdAt), nil
}
