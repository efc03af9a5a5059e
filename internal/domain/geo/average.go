package geo

import "math"

const (
	// goodAccuracyMeters is the accuracy below which a sample counts as a good fix.
	goodAccuracyMeters = 50.0
	// minGoodSamples is exclusive: more than this many good fixes switches to the good subset.
	minGoodSamples = 3
	// averagedAccuracyFactor tightens the reported accuracy of an averaged point.
	averagedAccuracyFactor = 0.8
	accuracyEpsilon        = 0.1
)

// AveragePosition stabilizes a burst of samples into one point using an
// accuracy-weighted mean (weight = 1/(accuracy+0.1)).
// When more than three samples are better than 50 m only those are used.
// The heading and timestamp come from the most recent (last) sample.
// ok is false only for empty input.
func AveragePosition(samples []Point) (Point, bool) {
	if len(samples) == 0 {
		return Point{}, false
	}

	good := make([]Point, 0, len(samples))
	for _, s := range samples {
		if s.Accuracy < goodAccuracyMeters {
			good = append(good, s)
		}
	}
	use := samples
	if len(good) > minGoodSamples {
		use = good
	}

	var totalWeight, lat, lon, acc float64
	for _, s := range use {
		w := 1 / (math.Max(s.Accuracy, 0) + accuracyEpsilon)
		lat += s.Latitude * w
		lon += s.Longitude * w
		acc += s.Accuracy * w
		totalWeight += w
	}

	last := samples[len(samples)-1]
	return Point{
		Latitude:  lat / totalWeight,
		Longitude: lon / totalWeight,
		Accuracy:  acc / totalWeight * averagedAccuracyFactor,
		Heading:   last.Heading,
		Timestamp: last.Timestamp,
	}, true
}
