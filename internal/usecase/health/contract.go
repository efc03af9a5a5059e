package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SessionCounter reports how many guidance sessions are live.
type SessionCounter interface {
	Len() int
}
