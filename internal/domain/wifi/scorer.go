// Package wifi scores how closely a live wireless scan matches a stored fingerprint.
package wifi

import "math"

const (
	// deviationCeilingDBm is the mean absolute RSSI delta at which the id-path score reaches zero.
	deviationCeilingDBm = 30.0
	// nameMatchDiscount caps name-only matches below a true id match.
	nameMatchDiscount = 0.7
)

// Network is one observed access point.
type Network struct {
	ID        string  // BSSID, primary match key
	Name      string  // SSID, fallback match key
	SignalDBm float64 // negative, more negative is weaker
}

// Similarity returns how well live matches stored, in [0,1].
// Networks are matched by ID; when no ID is shared the match falls back to Name
// with a fixed 0.7 discount. Empty keys never match.
func Similarity(live, stored []Network) float64 {
	if len(live) == 0 || len(stored) == 0 {
		return 0
	}

	liveByID := index(live, func(n Network) string { return n.ID })
	storedByID := index(stored, func(n Network) string { return n.ID })
	if common := intersect(liveByID, storedByID); len(common) > 0 {
		cos := cosine(common, liveByID, storedByID)
		cov := coverage(len(common), liveByID, storedByID)
		return clamp(cos * cov * deviationPenalty(common, liveByID, storedByID))
	}

	liveByName := index(live, func(n Network) string { return n.Name })
	storedByName := index(stored, func(n Network) string { return n.Name })
	common := intersect(liveByName, storedByName)
	if len(common) == 0 {
		return 0
	}
	cos := cosine(common, liveByName, storedByName)
	cov := coverage(len(common), liveByName, storedByName)
	return clamp(cos * cov * nameMatchDiscount)
}

// index builds key -> dBm. On duplicate keys the last observation wins.
func index(networks []Network, key func(Network) string) map[string]float64 {
	m := make(map[string]float64, len(networks))
	for _, n := range networks {
		k := key(n)
		if k == "" {
			continue
		}
		m[k] = n.SignalDBm
	}
	return m
}

func intersect(a, b map[string]float64) []string {
	out := make([]string, 0, len(a))
	for k := range a {
		if _, ok := b[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// cosine of the absolute signal vectors restricted to keys.
func cosine(keys []string, a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for _, k := range keys {
		x := math.Abs(a[k])
		y := math.Abs(b[k])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	// single sqrt keeps identical vectors at exactly 1
	return dot / math.Sqrt(normA*normB)
}

func coverage(common int, a, b map[string]float64) float64 {
	return float64(common) / float64(max(len(a), len(b)))
}

func deviationPenalty(keys []string, a, b map[string]float64) float64 {
	var sum float64
	for _, k := range keys {
		sum += math.Abs(a[k] - b[k])
	}
	mean := sum / float64(len(keys))
	return math.Max(0, 1-mean/deviationCeilingDBm)
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
