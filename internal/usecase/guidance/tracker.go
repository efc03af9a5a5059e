package guidance

import (
	"container/list"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/anchor/internal/domain/smoothing"
	"github.com/kailas-cloud/anchor/internal/metrics"
)

// DefaultSessionID keys requests that carry no session id.
const DefaultSessionID = "default"

type sessionKey struct {
	objectID  string
	sessionID string
}

type session struct {
	key     sessionKey
	state   smoothing.State
	touched time.Time
}

// Tracker owns the smoothing state of every live (object, session) key.
// Keys are created lazily, evicted after an idle TTL and, past maxEntries,
// least recently touched first. Safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	entries    map[sessionKey]*list.Element
	order      *list.List // front is most recently touched
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	logger     *zap.Logger
}

// NewTracker creates a tracker. A non-positive ttl disables idle eviction,
// a non-positive maxEntries disables the size bound.
func NewTracker(ttl time.Duration, maxEntries int, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		entries:    make(map[sessionKey]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		logger:     logger,
	}
}

// Update feeds one raw similarity and room label into the key's window.
func (t *Tracker) Update(objectID, sessionID string, similarity float64, room string) smoothing.Result {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	key := sessionKey{objectID: objectID, sessionID: sessionID}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var s *session
	if el, ok := t.entries[key]; ok {
		s = el.Value.(*session) //nolint:forcetypeassert // list only holds *session
		t.order.MoveToFront(el)
	} else {
		s = &session{key: key}
		t.entries[key] = t.order.PushFront(s)
		t.evictOverflow()
	}
	s.touched = now

	res := s.state.Update(similarity, room)
	metrics.GuidanceSessionsActive.Set(float64(len(t.entries)))
	return res
}

// Reset drops smoothing state and returns the number of keys removed.
// With only objectID the session id falls back to DefaultSessionID, so other
// sessions on the same object survive. Without objectID everything is cleared.
func (t *Tracker) Reset(objectID, sessionID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	if objectID != "" && sessionID == "" {
		sessionID = DefaultSessionID
	}
	switch {
	case objectID != "":
		if el, ok := t.entries[sessionKey{objectID: objectID, sessionID: sessionID}]; ok {
			t.remove(el)
			removed = 1
		}
	default:
		removed = len(t.entries)
		t.entries = make(map[sessionKey]*list.Element)
		t.order.Init()
	}

	metrics.GuidanceSessionsEvictedTotal.WithLabelValues(metrics.EvictReset).Add(float64(removed))
	metrics.GuidanceSessionsActive.Set(float64(len(t.entries)))
	return removed
}

// Sweep evicts every key idle for longer than the TTL and returns how many went.
func (t *Tracker) Sweep() int {
	if t.ttl <= 0 {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-t.ttl)
	removed := 0
	for el := t.order.Back(); el != nil; {
		s := el.Value.(*session) //nolint:forcetypeassert // list only holds *session
		if !s.touched.Before(cutoff) {
			break
		}
		prev := el.Prev()
		t.remove(el)
		removed++
		el = prev
	}

	if removed > 0 {
		metrics.GuidanceSessionsEvictedTotal.WithLabelValues(metrics.EvictIdle).Add(float64(removed))
		t.logger.Debug("Evicted idle guidance sessions",
			zap.Int("removed", removed),
			zap.Int("active", len(t.entries)),
		)
	}
	metrics.GuidanceSessionsActive.Set(float64(len(t.entries)))
	return removed
}

// Run sweeps on every interval tick until ctx is done.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || t.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Sweep()
		}
	}
}

// Len returns the number of live keys.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// evictOverflow must be called with mu held.
func (t *Tracker) evictOverflow() {
	if t.maxEntries <= 0 {
		return
	}
	for len(t.entries) > t.maxEntries {
		oldest := t.order.Back()
		if oldest == nil {
			return
		}
		s := oldest.Value.(*session) //nolint:forcetypeassert // list only holds *session
		t.remove(oldest)
		metrics.GuidanceSessionsEvictedTotal.WithLabelValues(metrics.EvictCapacity).Inc()
		t.logger.Warn("Guidance session evicted at capacity",
			zap.String("object_id", s.key.objectID),
			zap.String("session_id", s.key.sessionID),
			zap.Int("max_sessions", t.maxEntries),
		)
	}
}

// remove must be called with mu held.
func (t *Tracker) remove(el *list.Element) {
	s := el.Value.(*session) //nolint:forcetypeassert // list only holds *session
	delete(t.entries, s.key)
	t.order.Remove(el)
}
