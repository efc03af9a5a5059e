package anchor

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/anchor/internal/domain"
	domanchor "github.com/kailas-cloud/anchor/internal/domain/anchor"
)

// store is the consumer interface for anchors (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements usecase/anchor.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates an anchor repository. An empty prefix falls back to domain.DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Save writes the anchor hash and indexes it. Used for both create and update.
// On index failure the hash write is rolled back for new anchors.
func (r *Repo) Save(ctx context.Context, a domanchor.Anchor) error {
	key := r.anchorKey(a.ID())
	existed, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if err := r.store.HSet(ctx, key, anchorToHash(a)); err != nil {
		return fmt.Errorf("hset anchor %s: %w", a.ID(), err)
	}
	if err := r.store.SAdd(ctx, r.indexKey(), a.ID()); err != nil {
		if existed {
			return fmt.Errorf("index anchor %s: %w", a.ID(), err)
		}
		cleanupErr := r.store.Del(ctx, key)
		return errors.Join(err, cleanupErr)
	}
	return nil
}

// Get retrieves an anchor by ID.
func (r *Repo) Get(ctx context.Context, id string) (domanchor.Anchor, error) {
	m, err := r.store.HGetAll(ctx, r.anchorKey(id))
	if err != nil {
		return domanchor.Anchor{}, fmt.Errorf("hgetall anchor %s: %w", id, err)
	}
	if len(m) == 0 {
		return domanchor.Anchor{}, domain.ErrNotFound
	}
	return anchorFromHash(m)
}

// GetMany fetches anchors by ID in one round trip. Missing IDs are absent from the result.
func (r *Repo) GetMany(ctx context.Context, ids []string) (map[string]domanchor.Anchor, error) {
	out := make(map[string]domanchor.Anchor, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.anchorKey(id)
	}
	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi anchors: %w", err)
	}
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		a, err := anchorFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse anchor %s: %w", ids[i], err)
		}
		out[ids[i]] = a
	}
	return out, nil
}

// List returns all anchors, newest first.
func (r *Repo) List(ctx context.Context) ([]domanchor.Anchor, error) {
	ids, err := r.store.SMembers(ctx, r.indexKey())
	if err != nil {
		return nil, fmt.Errorf("smembers anchors: %w", err)
	}
	byID, err := r.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	anchors := make([]domanchor.Anchor, 0, len(byID))
	for _, a := range byID {
		anchors = append(anchors, a)
	}
	sort.Slice(anchors, func(i, j int) bool {
		return anchors[i].CreatedAt().After(anchors[j].CreatedAt())
	})
	return anchors, nil
}

// Delete removes the anchor hash and its index entry.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.anchorKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del anchor %s: %w", id, err)
	}
	if err := r.store.SRem(ctx, r.indexKey(), id); err != nil {
		return fmt.Errorf("unindex anchor %s: %w", id, err)
	}
	return nil
}

// Exists reports whether an anchor is stored.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := r.store.Exists(ctx, r.anchorKey(id))
	if err != nil {
		return false, fmt.Errorf("check exists: %w", err)
	}
	return ok, nil
}

// Key patterns: {prefix}anchor:{id}, {prefix}anchors

func (r *Repo) anchorKey(id string) string {
	return fmt.Sprintf("%sanchor:%s", r.prefix, id)
}

func (r *Repo) indexKey() string {
	return r.prefix + "anchors"
}
