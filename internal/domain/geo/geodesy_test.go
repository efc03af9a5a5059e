package geo

import (
	"math"
	"testing"
)

func almost(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestHaversine_SamePoint(t *testing.T) {
	d := Haversine(40.7128, -74.0060, 40.7128, -74.0060)
	if d != 0 {
		t.Fatalf("want 0, got %f", d)
	}
}

func TestHaversine_NewYork_London(t *testing.T) {
	// NYC to London: ~5,570 km
	d := Haversine(40.7128, -74.0060, 51.5074, -0.1278)
	if !almost(d, 5_570_000, 30_000) {
		t.Fatalf("want ~5570000m, got %.0fm", d)
	}
}

func TestHaversine_Antipodal(t *testing.T) {
	d := Haversine(0, 0, 0, 180)
	if !almost(d, math.Pi*EarthRadiusMeters, 1) {
		t.Fatalf("want ~%.0fm, got %.0fm", math.Pi*EarthRadiusMeters, d)
	}
}

func TestDistance_ZeroAndSymmetric(t *testing.T) {
	points := []Point{
		At(0, 0),
		At(55.7558, 37.6173),
		At(-33.8688, 151.2093),
		At(89.9, -120),
		At(40.7128, -74.0060),
	}
	for _, a := range points {
		if d := Distance(a, a); d != 0 {
			t.Errorf("Distance(%v, %v) = %f, want 0", a, a, d)
		}
		for _, b := range points {
			if ab, ba := Distance(a, b), Distance(b, a); !almost(ab, ba, 1e-6) {
				t.Errorf("asymmetric distance: %f vs %f", ab, ba)
			}
		}
	}
}

func TestBearing_Cardinal(t *testing.T) {
	origin := At(0, 0)
	tests := []struct {
		name string
		to   Point
		want float64
	}{
		{"north", At(1, 0), 0},
		{"east", At(0, 1), 90},
		{"south", At(-1, 0), 180},
		{"west", At(0, -1), 270},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Bearing(origin, tc.to)
			if !almost(got, tc.want, 1e-9) {
				t.Errorf("Bearing = %f, want %f", got, tc.want)
			}
		})
	}
}

func TestBearing_Range(t *testing.T) {
	from := At(48.8566, 2.3522)
	for deg := 0.0; deg < 360; deg += 7.5 {
		b := Bearing(from, Destination(from, 1000, deg))
		if b < 0 || b >= 360 {
			t.Fatalf("bearing %f out of [0,360)", b)
		}
	}
}

func TestBearing_CoincidentPoints(t *testing.T) {
	p := At(51.5, -0.12)
	if b := Bearing(p, p); b != 0 {
		t.Fatalf("want 0 for coincident points, got %f", b)
	}
}

func TestAngularDelta(t *testing.T) {
	tests := []struct {
		current, target, want float64
	}{
		{0, 0, 0},
		{10, 40, 30},
		{40, 10, -30},
		{350, 10, 20},
		{10, 350, -20},
		{0, 180, 180},
		{180, 0, 180},
		{10, 200, -170},
		{200, 10, 170},
		{720, 90, 90},
		{-90, 90, 180},
	}
	for _, tc := range tests {
		got := AngularDelta(tc.current, tc.target)
		if !almost(got, tc.want, 1e-9) {
			t.Errorf("AngularDelta(%v, %v) = %v, want %v", tc.current, tc.target, got, tc.want)
		}
	}
}

func TestAngularDelta_RangeAndIdentity(t *testing.T) {
	for h := -720.0; h <= 720; h += 13.7 {
		if d := AngularDelta(h, h); d != 0 {
			t.Fatalf("AngularDelta(%v, %v) = %v, want 0", h, h, d)
		}
		for target := -360.0; target <= 360; target += 11.3 {
			d := AngularDelta(h, target)
			if d <= -180 || d > 180 {
				t.Fatalf("AngularDelta(%v, %v) = %v out of (-180,180]", h, target, d)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{360, 0},
		{-90, 270},
		{725, 5},
		{-1e-15, 0},
	}
	for _, tc := range tests {
		got := Normalize(tc.in)
		if got < 0 || got >= 360 {
			t.Errorf("Normalize(%v) = %v out of range", tc.in, got)
		}
		if !almost(got, tc.want, 1e-9) {
			t.Errorf("Normalize(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDeviation(t *testing.T) {
	a, b := 350.0, 20.0
	if d := Deviation(&a, &b); !almost(d, 30, 1e-9) {
		t.Errorf("Deviation = %v, want 30", d)
	}
	if d := Deviation(nil, &b); d != 180 {
		t.Errorf("Deviation(nil, b) = %v, want 180", d)
	}
	if d := Deviation(&a, nil); d != 180 {
		t.Errorf("Deviation(a, nil) = %v, want 180", d)
	}
}

func TestDestination_RoundTrip(t *testing.T) {
	starts := []Point{
		At(0, 0),
		At(55.7558, 37.6173),
		At(-33.8688, 151.2093),
		At(40.7128, -74.0060),
		At(0, 179.99),
	}
	distances := []float64{1, 10, 250, 5_000, 25_000, 80_000}
	for _, start := range starts {
		for _, d := range distances {
			for b := 0.0; b < 360; b += 45 {
				dest := Destination(start, d, b)
				got := Distance(dest, start)
				if !almost(got, d, 0.5) {
					t.Errorf("start=%v d=%v b=%v: round trip distance %f", start, d, b, got)
				}
				if d >= 10 {
					back := Bearing(start, dest)
					if math.Abs(AngularDelta(back, b)) > 0.01 {
						t.Errorf("start=%v d=%v b=%v: bearing back %f", start, d, b, back)
					}
				}
			}
		}
	}
}

func TestDestination_KeepsMetadata(t *testing.T) {
	h := 42.0
	start := Point{Latitude: 10, Longitude: 10, Accuracy: 7, Heading: &h}
	dest := Destination(start, 100, 0)
	if dest.Accuracy != 7 || dest.Heading == nil || *dest.Heading != 42 {
		t.Fatalf("metadata not carried over: %+v", dest)
	}
	if dest.Latitude <= start.Latitude {
		t.Fatalf("moving north should increase latitude: %f", dest.Latitude)
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		lat, lon float64
		valid    bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{91, 0, false},
		{0, 181, false},
		{-91, 0, false},
		{0, -181, false},
		{math.NaN(), 0, false},
	}
	for _, tt := range tests {
		if got := ValidateCoordinates(tt.lat, tt.lon); got != tt.valid {
			t.Errorf("ValidateCoordinates(%f, %f) = %v, want %v", tt.lat, tt.lon, got, tt.valid)
		}
	}
}
