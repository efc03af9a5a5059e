package fingerprint

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/anchor/internal/domain/wifi"
)

// networkRow is the JSON-serializable representation of an observation.
type networkRow struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	SignalDBm float64 `json:"signalStrengthDbm"`
}

func fingerprintToHash(fp wifi.Fingerprint) (map[string]string, error) {
	rows := make([]networkRow, len(fp.Networks()))
	for i, n := range fp.Networks() {
		rows[i] = networkRow{ID: n.ID, Name: n.Name, SignalDBm: n.SignalDBm}
	}
	networksJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal networks: %w", err)
	}
	return map[string]string{
		"id":            fp.ID(),
		"object_id":     fp.ObjectID(),
		"created_at":    fp.CapturedAt().Format(time.RFC3339Nano),
		"networks_json": string(networksJSON),
		"room_label":    fp.RoomLabel(),
	}, nil
}

func fingerprintFromHash(m map[string]string) (wifi.Fingerprint, error) {
	raw, ok := m["networks_json"]
	if !ok {
		return wifi.Fingerprint{}, fmt.Errorf("networks missing")
	}
	var rows []networkRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return wifi.Fingerprint{}, fmt.Errorf("unmarshal networks: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, m["created_at"])
	if err != nil {
		return wifi.Fingerprint{}, fmt.Errorf("invalid created_at: %w", err)
	}

	networks := make([]wifi.Network, len(rows))
	for i, r := range rows {
		networks[i] = wifi.Network{ID: r.ID, Name: r.Name, SignalDBm: r.SignalDBm}
	}
	return wifi.ReconstructFingerprint(m["id"], m["object_id"], createdAt, networks, m["room_label"]), nil
}
