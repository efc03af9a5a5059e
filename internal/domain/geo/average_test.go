package geo

import (
	"math"
	"testing"
	"time"
)

func TestAveragePosition_Empty(t *testing.T) {
	if _, ok := AveragePosition(nil); ok {
		t.Fatal("expected ok=false for empty input")
	}
}

func TestAveragePosition_Single(t *testing.T) {
	h := 123.0
	ts := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	p, ok := AveragePosition([]Point{{Latitude: 1, Longitude: 2, Accuracy: 10, Heading: &h, Timestamp: ts}})
	if !ok {
		t.Fatal("expected ok")
	}
	if !almost(p.Latitude, 1, 1e-12) || !almost(p.Longitude, 2, 1e-12) {
		t.Errorf("unexpected position %+v", p)
	}
	if !almost(p.Accuracy, 8, 1e-9) {
		t.Errorf("accuracy = %v, want 8", p.Accuracy)
	}
	if p.Heading == nil || *p.Heading != 123 || !p.Timestamp.Equal(ts) {
		t.Errorf("heading/timestamp not taken from sample: %+v", p)
	}
}

func TestAveragePosition_Weighted(t *testing.T) {
	samples := []Point{
		{Latitude: 10, Longitude: 10, Accuracy: 1},
		{Latitude: 20, Longitude: 20, Accuracy: 100},
	}
	p, _ := AveragePosition(samples)
	w1, w2 := 1/1.1, 1/100.1
	want := (10*w1 + 20*w2) / (w1 + w2)
	if !almost(p.Latitude, want, 1e-9) {
		t.Errorf("latitude = %v, want %v", p.Latitude, want)
	}
	wantAcc := (1*w1 + 100*w2) / (w1 + w2) * 0.8
	if !almost(p.Accuracy, wantAcc, 1e-9) {
		t.Errorf("accuracy = %v, want %v", p.Accuracy, wantAcc)
	}
}

func TestAveragePosition_GoodSubset(t *testing.T) {
	samples := []Point{
		{Latitude: 1, Longitude: 1, Accuracy: 10},
		{Latitude: 1, Longitude: 1, Accuracy: 10},
		{Latitude: 1, Longitude: 1, Accuracy: 10},
		{Latitude: 1, Longitude: 1, Accuracy: 10},
		{Latitude: 50, Longitude: 50, Accuracy: 60},
	}
	p, _ := AveragePosition(samples)
	if !almost(p.Latitude, 1, 1e-12) || !almost(p.Longitude, 1, 1e-12) {
		t.Fatalf("poor sample should be excluded, got %+v", p)
	}
}

func TestAveragePosition_ThreeGoodUsesAll(t *testing.T) {
	samples := []Point{
		{Latitude: 1, Longitude: 1, Accuracy: 10},
		{Latitude: 1, Longitude: 1, Accuracy: 10},
		{Latitude: 1, Longitude: 1, Accuracy: 10},
		{Latitude: 50, Longitude: 50, Accuracy: 60},
	}
	p, _ := AveragePosition(samples)
	if almost(p.Latitude, 1, 1e-6) {
		t.Fatal("with only three good samples every sample must count")
	}
}

func TestAveragePosition_HeadingFromLast(t *testing.T) {
	h1, h2 := 10.0, 200.0
	samples := []Point{
		{Latitude: 1, Longitude: 1, Accuracy: 5, Heading: &h1},
		{Latitude: 1, Longitude: 1, Accuracy: 5, Heading: &h2},
	}
	p, _ := AveragePosition(samples)
	if p.Heading == nil || *p.Heading != 200 {
		t.Fatalf("expected last heading 200, got %v", p.Heading)
	}
	if math.IsNaN(p.Accuracy) {
		t.Fatal("accuracy is NaN")
	}
}
