package fingerprint

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/anchor/internal/domain"
	"github.com/kailas-cloud/anchor/internal/domain/wifi"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn    func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn func(ctx context.Context, key string) (map[string]string, error)
	delFn     func(ctx context.Context, keys ...string) error
	existsFn  func(ctx context.Context, key string) (bool, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	if m.delFn != nil {
		return m.delFn(ctx, keys...)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func testFingerprint(t *testing.T) wifi.Fingerprint {
	t.Helper()
	fp, err := wifi.NewFingerprint("fp1", "o1", time.Date(2026, 3, 3, 3, 3, 3, 0, time.UTC), []wifi.Network{
		{ID: "aa:aa", Name: "office", SignalDBm: -48},
		{ID: "bb:bb", Name: "guest", SignalDBm: -67},
	}, "kitchen")
	if err != nil {
		t.Fatalf("build fingerprint: %v", err)
	}
	return fp
}

// --- Tests ---

func TestReplace_DeletesThenWrites(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms, "test:")

	var calls []string
	ms.delFn = func(_ context.Context, keys ...string) error {
		calls = append(calls, "DEL "+keys[0])
		return nil
	}
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		calls = append(calls, "HSET "+key)
		if fields["room_label"] != "kitchen" || fields["object_id"] != "o1" {
			t.Errorf("unexpected fields: %v", fields)
		}
		return nil
	}

	if err := repo.Replace(context.Background(), testFingerprint(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"DEL test:fingerprint:o1", "HSET test:fingerprint:o1"}
	if len(calls) != 2 || calls[0] != want[0] || calls[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, calls)
	}
}

func TestGet_RoundTrip(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms, "test:")
	fp := testFingerprint(t)
	hash, err := fingerprintToHash(fp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) { return hash, nil }

	got, err := repo.Get(context.Background(), "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != "fp1" || got.RoomLabel() != "kitchen" || len(got.Networks()) != 2 {
		t.Fatalf("unexpected fingerprint: %+v", got)
	}
	if got.Score(fp.Networks()) != 1 {
		t.Fatalf("decoded networks should match the stored scan exactly")
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := New(&mockStore{}, "test:")
	if _, err := repo.Get(context.Background(), "o1"); !errors.Is(err, domain.ErrFingerprintNotFound) {
		t.Fatalf("expected ErrFingerprintNotFound, got %v", err)
	}
}

func TestGet_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		hash map[string]string
	}{
		{"bad json", map[string]string{"id": "fp1", "networks_json": "{not json", "created_at": "2026-01-01T00:00:00Z"}},
		{"missing networks", map[string]string{"id": "fp1", "created_at": "2026-01-01T00:00:00Z"}},
		{"bad timestamp", map[string]string{"id": "fp1", "networks_json": "[]", "created_at": "yesterday"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ms := &mockStore{hgetAllFn: func(_ context.Context, _ string) (map[string]string, error) {
				return tc.hash, nil
			}}
			repo := New(ms, "test:")
			if _, err := repo.Get(context.Background(), "o1"); !errors.Is(err, domain.ErrCorruptRecord) {
				t.Fatalf("expected ErrCorruptRecord, got %v", err)
			}
		})
	}
}

func TestGet_StoreError(t *testing.T) {
	ms := &mockStore{hgetAllFn: func(_ context.Context, _ string) (map[string]string, error) {
		return nil, errors.New("connection refused")
	}}
	repo := New(ms, "test:")
	_, err := repo.Get(context.Background(), "o1")
	if err == nil || errors.Is(err, domain.ErrCorruptRecord) || errors.Is(err, domain.ErrFingerprintNotFound) {
		t.Fatalf("expected plain infrastructure error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms, "test:")
	if err := repo.Delete(context.Background(), "o1"); !errors.Is(err, domain.ErrFingerprintNotFound) {
		t.Fatalf("expected ErrFingerprintNotFound, got %v", err)
	}

	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	var deleted []string
	ms.delFn = func(_ context.Context, keys ...string) error {
		deleted = keys
		return nil
	}
	if err := repo.Delete(context.Background(), "o1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != "test:fingerprint:o1" {
		t.Fatalf("unexpected DEL: %v", deleted)
	}
}

func TestDeleteMany(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms, "test:")
	var deleted []string
	ms.delFn = func(_ context.Context, keys ...string) error {
		deleted = keys
		return nil
	}
	if err := repo.DeleteMany(context.Background(), []string{"o1", "o2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deleted) != 2 || deleted[1] != "test:fingerprint:o2" {
		t.Fatalf("unexpected DEL: %v", deleted)
	}
	if err := repo.DeleteMany(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
