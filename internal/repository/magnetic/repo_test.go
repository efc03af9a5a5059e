package magnetic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/anchor/internal/domain"
	dommag "github.com/kailas-cloud/anchor/internal/domain/magnetic"
)

// --- Mocks ---

type fakeStore struct {
	hashes map[string]map[string]string
	sets   map[string]map[string]struct{}
	failOn string
}

func newFakeStore() *fakeStore {
	return &fakeStore{hashes: map[string]map[string]string{}, sets: map[string]map[string]struct{}{}}
}

func (f *fakeStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if f.failOn == "HSET" {
		return errors.New("hset failed")
	}
	h, ok := f.hashes[key]
	if !ok {
		h = map[string]string{}
		f.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (f *fakeStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if h, ok := f.hashes[key]; ok {
		return h, nil
	}
	return map[string]string{}, nil
}

func (f *fakeStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i], _ = f.HGetAll(ctx, k)
	}
	return out, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.hashes, k)
		delete(f.sets, k)
	}
	return nil
}

func (f *fakeStore) SAdd(_ context.Context, key string, members ...string) error {
	if f.failOn == "SADD" {
		return errors.New("sadd failed")
	}
	s, ok := f.sets[key]
	if !ok {
		s = map[string]struct{}{}
		f.sets[key] = s
	}
	for _, m := range members {
		s[m] = struct{}{}
	}
	return nil
}

func (f *fakeStore) SRem(_ context.Context, key string, members ...string) error {
	for _, m := range members {
		delete(f.sets[key], m)
	}
	return nil
}

func (f *fakeStore) SMembers(_ context.Context, key string) ([]string, error) {
	out := make([]string, 0, len(f.sets[key]))
	for m := range f.sets[key] {
		out = append(out, m)
	}
	return out, nil
}

// --- Tests ---

func testFingerprint(t *testing.T, id, anchorID string, created time.Time, full bool) dommag.Fingerprint {
	t.Helper()
	mag := 48.5
	p := dommag.Params{Magnitude: &mag, Vector: &dommag.Vector3{X: 21.5, Y: -4, Z: 43.25}}
	if full {
		inc := 62.0
		n := 25
		p.Inclination = &inc
		p.SampleCount = &n
		p.Orientation = &dommag.Orientation{Alpha: 120, Beta: 5, Gamma: -3}
	}
	fp, err := dommag.New(id, anchorID, p, created)
	if err != nil {
		t.Fatalf("build fingerprint: %v", err)
	}
	return fp
}

func TestReplaceGetRoundTrip(t *testing.T) {
	fs := newFakeStore()
	repo := New(fs, "test:")
	fp := testFingerprint(t, "m1", "a1", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), true)

	if err := repo.Replace(context.Background(), fp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetByAnchor(context.Background(), "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != "m1" || got.Magnitude() != 48.5 || got.Vector().Z != 43.25 {
		t.Errorf("unexpected fingerprint: %+v", got)
	}
	if got.Inclination() == nil || *got.Inclination() != 62 {
		t.Errorf("inclination not preserved: %v", got.Inclination())
	}
	if got.Orientation() == nil || got.Orientation().Alpha != 120 {
		t.Errorf("orientation not preserved: %+v", got.Orientation())
	}
	if got.SampleCount() == nil || *got.SampleCount() != 25 {
		t.Errorf("sample count not preserved: %v", got.SampleCount())
	}
}

func TestReplace_OptionalFieldsStayNil(t *testing.T) {
	repo := New(newFakeStore(), "test:")
	if err := repo.Replace(context.Background(), testFingerprint(t, "m1", "a1", time.Now(), false)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := repo.Get(context.Background(), "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Inclination() != nil || got.Orientation() != nil || got.SampleCount() != nil {
		t.Errorf("expected nil optionals, got %v %v %v", got.Inclination(), got.Orientation(), got.SampleCount())
	}
}

func TestReplace_DropsPrevious(t *testing.T) {
	fs := newFakeStore()
	repo := New(fs, "test:")
	ctx := context.Background()

	if err := repo.Replace(ctx, testFingerprint(t, "m1", "a1", time.Now(), false)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Replace(ctx, testFingerprint(t, "m2", "a1", time.Now(), false)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := repo.Get(ctx, "m1"); !errors.Is(err, domain.ErrMagneticNotFound) {
		t.Errorf("expected old fingerprint gone, got %v", err)
	}
	if len(fs.sets["test:anchor:a1:magnetic"]) != 1 {
		t.Errorf("expected one pointer, got %v", fs.sets["test:anchor:a1:magnetic"])
	}
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 1 || all[0].ID() != "m2" {
		t.Errorf("unexpected list: %d", len(all))
	}
}

func TestReplace_IndexFailureRollsBack(t *testing.T) {
	fs := newFakeStore()
	fs.failOn = "SADD"
	repo := New(fs, "test:")

	if err := repo.Replace(context.Background(), testFingerprint(t, "m1", "a1", time.Now(), false)); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := fs.hashes["test:magnetic:m1"]; ok {
		t.Error("record should be removed after index failure")
	}
}

func TestList_NewestFirst(t *testing.T) {
	repo := New(newFakeStore(), "test:")
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	_ = repo.Replace(ctx, testFingerprint(t, "old", "a1", base, false))
	_ = repo.Replace(ctx, testFingerprint(t, "new", "a2", base.Add(time.Hour), false))

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 || all[0].ID() != "new" || all[1].ID() != "old" {
		t.Fatalf("unexpected order")
	}
}

func TestGet_Corrupt(t *testing.T) {
	fs := newFakeStore()
	fs.hashes["test:magnetic:m1"] = map[string]string{"id": "m1", "created_at": "yesterday"}
	repo := New(fs, "test:")

	if _, err := repo.Get(context.Background(), "m1"); !errors.Is(err, domain.ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	fs := newFakeStore()
	repo := New(fs, "test:")
	ctx := context.Background()
	_ = repo.Replace(ctx, testFingerprint(t, "m1", "a1", time.Now(), false))

	if err := repo.Delete(ctx, "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.GetByAnchor(ctx, "a1"); !errors.Is(err, domain.ErrMagneticNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if err := repo.Delete(ctx, "m1"); !errors.Is(err, domain.ErrMagneticNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestDeleteByAnchor(t *testing.T) {
	fs := newFakeStore()
	repo := New(fs, "test:")
	ctx := context.Background()
	_ = repo.Replace(ctx, testFingerprint(t, "m1", "a1", time.Now(), false))

	if err := repo.DeleteByAnchor(ctx, "a1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.hashes) != 0 {
		t.Errorf("expected no hashes, got %v", fs.hashes)
	}
	if len(fs.sets["test:magnetics"]) != 0 {
		t.Errorf("expected empty index, got %v", fs.sets["test:magnetics"])
	}
	if err := repo.DeleteByAnchor(ctx, "missing"); err != nil {
		t.Errorf("missing anchor should be a no-op, got %v", err)
	}
}
