package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockSessions struct{ n int }

func (m *mockSessions) Len() int { return m.n }

// --- Tests ---

func TestCheck_Healthy(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockSessions{n: 4})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.ActiveSessions != 4 {
		t.Errorf("expected 4 sessions, got %d", r.ActiveSessions)
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
	if r.ActiveSessions != 0 {
		t.Errorf("expected 0 sessions without a counter, got %d", r.ActiveSessions)
	}
}
