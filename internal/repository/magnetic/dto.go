package magnetic

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	dommag "github.com/kailas-cloud/anchor/internal/domain/magnetic"
)

type orientationRow struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fingerprintToHash(fp dommag.Fingerprint) (map[string]string, error) {
	v := fp.Vector()
	m := map[string]string{
		"id":           fp.ID(),
		"anchor_id":    fp.AnchorID(),
		"created_at":   fp.CreatedAt().Format(time.RFC3339Nano),
		"magnitude":    formatFloat(fp.Magnitude()),
		"vector_x":     formatFloat(v.X),
		"vector_y":     formatFloat(v.Y),
		"vector_z":     formatFloat(v.Z),
		"inclination":  "",
		"orientation":  "",
		"sample_count": "",
	}
	if inc := fp.Inclination(); inc != nil {
		m["inclination"] = formatFloat(*inc)
	}
	if o := fp.Orientation(); o != nil {
		raw, err := json.Marshal(orientationRow{Alpha: o.Alpha, Beta: o.Beta, Gamma: o.Gamma})
		if err != nil {
			return nil, fmt.Errorf("marshal orientation: %w", err)
		}
		m["orientation"] = string(raw)
	}
	if n := fp.SampleCount(); n != nil {
		m["sample_count"] = strconv.Itoa(*n)
	}
	return m, nil
}

func fingerprintFromHash(m map[string]string) (dommag.Fingerprint, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, m["created_at"])
	if err != nil {
		return dommag.Fingerprint{}, fmt.Errorf("invalid created_at: %w", err)
	}

	var vals [4]float64
	for i, field := range []string{"magnitude", "vector_x", "vector_y", "vector_z"} {
		vals[i], err = strconv.ParseFloat(m[field], 64)
		if err != nil {
			return dommag.Fingerprint{}, fmt.Errorf("invalid %s: %w", field, err)
		}
	}

	var inclination *float64
	if raw := m["inclination"]; raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			inclination = &v
		}
	}

	var orientation *dommag.Orientation
	if raw := m["orientation"]; raw != "" {
		var row orientationRow
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return dommag.Fingerprint{}, fmt.Errorf("unmarshal orientation: %w", err)
		}
		orientation = &dommag.Orientation{Alpha: row.Alpha, Beta: row.Beta, Gamma: row.Gamma}
	}

	var samples *int
	if raw := m["sample_count"]; raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			samples = &n
		}
	}

	return dommag.Reconstruct(
		m["id"], m["anchor_id"], createdAt, vals[0],
		dommag.Vector3{X: vals[1], Y: vals[2], Z: vals[3]},
		inclination, orientation, samples,
	), nil
}
