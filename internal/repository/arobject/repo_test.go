package arobject

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/anchor/internal/domain"
)

func TestSave_IndexesGlobalAndAnchor(t *testing.T) {
	repo, ms := newTestRepo(t)
	o := testObject(t, "o1", "a1", time.Now())

	added := map[string][]string{}
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		if key != "test:object:o1" {
			t.Errorf("unexpected key: %s", key)
		}
		if fields["anchor_id"] != "a1" || fields["placement_heading"] != "" {
			t.Errorf("unexpected fields: %v", fields)
		}
		return nil
	}
	ms.saddFn = func(_ context.Context, key string, members ...string) error {
		added[key] = members
		return nil
	}

	if err := repo.Save(context.Background(), o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(added["test:objects"]) != 1 || len(added["test:anchor:a1:objects"]) != 1 {
		t.Fatalf("unexpected index writes: %v", added)
	}
}

func TestSave_HSetError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		return errors.New("connection lost")
	}
	ms.saddFn = func(_ context.Context, _ string, _ ...string) error {
		t.Error("index must not be written after a failed HSET")
		return nil
	}
	if err := repo.Save(context.Background(), testObject(t, "o1", "a1", time.Now())); err == nil {
		t.Fatal("expected error")
	}
}

func TestGet_RoundTrip(t *testing.T) {
	repo, ms := newTestRepo(t)
	o := testObject(t, "o1", "a1", time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC))
	h := 275.5
	o = o.WithRoomContext("kitchen", &h)

	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return objectToHash(o), nil
	}

	got, err := repo.Get(context.Background(), "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AnchorID() != "a1" || got.Label() != "Keys" || got.RoomLabel() != "kitchen" {
		t.Errorf("unexpected object: %+v", got)
	}
	if got.PlacementHeading() != 275.5 || got.BearingFromAnchor() != 90 || got.DistanceFromAnchor() != 2.5 {
		t.Errorf("unexpected numbers: placement %v bearing %v distance %v",
			got.PlacementHeading(), got.BearingFromAnchor(), got.DistanceFromAnchor())
	}
	if got.CapturePosition().Latitude != 48.1374 {
		t.Errorf("capture lat = %v", got.CapturePosition().Latitude)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	if _, err := repo.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestListByAnchor_SkipsDanglingAndSorts(t *testing.T) {
	repo, ms := newTestRepo(t)
	first := testObject(t, "o1", "a1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	second := testObject(t, "o2", "a1", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))

	ms.smembersFn = func(_ context.Context, key string) ([]string, error) {
		if key != "test:anchor:a1:objects" {
			t.Errorf("unexpected index key: %s", key)
		}
		return []string{"o1", "ghost", "o2"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, _ []string) ([]map[string]string, error) {
		return []map[string]string{objectToHash(first), {}, objectToHash(second)}, nil
	}

	list, err := repo.ListByAnchor(context.Background(), "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].ID() != "o2" || list[1].ID() != "o1" {
		t.Fatalf("expected [o2 o1], got %d items", len(list))
	}
}

func TestList_UsesGlobalIndex(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.smembersFn = func(_ context.Context, key string) ([]string, error) {
		if key != "test:objects" {
			t.Errorf("unexpected index key: %s", key)
		}
		return nil, nil
	}
	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}
}

func TestDelete_RemovesIndexes(t *testing.T) {
	repo, ms := newTestRepo(t)
	o := testObject(t, "o1", "a7", time.Now())

	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return objectToHash(o), nil
	}
	removed := map[string]bool{}
	ms.sremFn = func(_ context.Context, key string, _ ...string) error {
		removed[key] = true
		return nil
	}
	var deleted []string
	ms.delFn = func(_ context.Context, keys ...string) error {
		deleted = keys
		return nil
	}

	if err := repo.Delete(context.Background(), "o1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != "test:object:o1" {
		t.Errorf("unexpected DEL: %v", deleted)
	}
	if !removed["test:objects"] || !removed["test:anchor:a7:objects"] {
		t.Errorf("unexpected SREM keys: %v", removed)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	if err := repo.Delete(context.Background(), "nope"); !errors.Is(err, domain.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}
