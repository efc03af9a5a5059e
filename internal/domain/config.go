package domain

import "time"

// DefaultKeyPrefix namespaces every storage key.
const DefaultKeyPrefix = "anchor:"

// GuidanceConfig holds engine tuning that is not part of any request.
type GuidanceConfig struct {
	GateRadiusMeters      float64
	GateConeDegrees       float64
	AlignmentToleranceDeg float64
	SessionIdleTTL        time.Duration
	SessionSweepInterval  time.Duration
	MaxSessions           int
}

// DefaultGuidanceConfig returns the defaults tuned for phone-grade GPS and compass.
func DefaultGuidanceConfig() GuidanceConfig {
	return GuidanceConfig{
		GateRadiusMeters:      50,
		GateConeDegrees:       90,
		AlignmentToleranceDeg: 5,
		SessionIdleTTL:        15 * time.Minute,
		SessionSweepInterval:  time.Minute,
		MaxSessions:           10000,
	}
}
