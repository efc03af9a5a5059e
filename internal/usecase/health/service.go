package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status         Status
	Checks         map[string]CheckResult
	ActiveSessions int
}

// Service coordinates health checks.
type Service struct {
	db       DBPinger
	sessions SessionCounter
}

// New creates a Service. sessions can be nil.
func New(db DBPinger, sessions SessionCounter) *Service {
	return &Service{db: db, sessions: sessions}
}

// Check pings the database and reports the live session count.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{"database": CheckOK}
	status := Healthy
	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		status = Degraded
	}

	r := Report{Status: status, Checks: checks}
	if s.sessions != nil {
		r.ActiveSessions = s.sessions.Len()
	}
	return r
}
