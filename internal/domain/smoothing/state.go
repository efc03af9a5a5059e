// Package smoothing damps per-session similarity readings and applies room hysteresis.
package smoothing

import "math"

const (
	// WindowSize is the number of raw readings kept per session.
	WindowSize = 5
	// Decay weights older readings by Decay^(age).
	Decay = 0.4
	// RoomConfirmations is how many consecutive identical labels switch the confirmed room.
	RoomConfirmations = 3
)

// Result is the outcome of one Update.
type Result struct {
	Smoothed      float64
	ConfirmedRoom string // empty until a room is confirmed
}

// State is the smoothing state of a single (object, session) key.
// It is not safe for concurrent use; callers serialize access per key.
type State struct {
	window        []float64
	lastRoom      string
	consecutive   int
	confirmedRoom string
}

// Update records a raw similarity and room label and returns the smoothed view.
// Out-of-range similarities are clamped to [0,1].
func (s *State) Update(similarity float64, room string) Result {
	s.window = append(s.window, clamp(similarity))
	if len(s.window) > WindowSize {
		s.window = s.window[len(s.window)-WindowSize:]
	}

	if s.consecutive > 0 && room == s.lastRoom {
		s.consecutive++
	} else {
		s.consecutive = 1
	}
	s.lastRoom = room
	if s.consecutive >= RoomConfirmations {
		s.confirmedRoom = room
	}

	return Result{Smoothed: s.Smoothed(), ConfirmedRoom: s.confirmedRoom}
}

// Smoothed returns the exponentially weighted mean of the window, newest weighted highest.
func (s *State) Smoothed() float64 {
	n := len(s.window)
	if n == 0 {
		return 0
	}
	var sum, weights float64
	w := 1.0
	for i := n - 1; i >= 0; i-- {
		sum += s.window[i] * w
		weights += w
		w *= Decay
	}
	return clamp(sum / weights)
}

// Len returns the number of readings in the window.
func (s *State) Len() int { return len(s.window) }

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
