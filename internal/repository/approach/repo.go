package approach

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/anchor/internal/domain"
	domapproach "github.com/kailas-cloud/anchor/internal/domain/approach"
)

// store is the consumer interface for approach vectors (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements usecase/approach.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates an approach vector repository. An empty prefix falls back to domain.DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Create stores a vector and indexes it globally and under its anchor.
func (r *Repo) Create(ctx context.Context, v domapproach.Vector) error {
	fields, err := vectorToHash(v)
	if err != nil {
		return err
	}
	key := r.vectorKey(v.ID())
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset vector %s: %w", v.ID(), err)
	}
	err = errors.Join(
		r.store.SAdd(ctx, r.indexKey(), v.ID()),
		r.store.SAdd(ctx, r.anchorIndexKey(v.AnchorID()), v.ID()),
	)
	if err != nil {
		cleanupErr := r.store.Del(ctx, key)
		return errors.Join(fmt.Errorf("index vector %s: %w", v.ID(), err), cleanupErr)
	}
	return nil
}

// Get retrieves a vector by ID.
func (r *Repo) Get(ctx context.Context, id string) (domapproach.Vector, error) {
	m, err := r.store.HGetAll(ctx, r.vectorKey(id))
	if err != nil {
		return domapproach.Vector{}, fmt.Errorf("hgetall vector %s: %w", id, err)
	}
	if len(m) == 0 {
		return domapproach.Vector{}, domain.ErrVectorNotFound
	}
	return vectorFromHash(m)
}

// List returns every vector, newest first.
func (r *Repo) List(ctx context.Context) ([]domapproach.Vector, error) {
	return r.listIndex(ctx, r.indexKey())
}

// ListByAnchor returns the vectors leading to one anchor, newest first.
func (r *Repo) ListByAnchor(ctx context.Context, anchorID string) ([]domapproach.Vector, error) {
	return r.listIndex(ctx, r.anchorIndexKey(anchorID))
}

func (r *Repo) listIndex(ctx context.Context, index string) ([]domapproach.Vector, error) {
	ids, err := r.store.SMembers(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", index, err)
	}
	if len(ids) == 0 {
		return []domapproach.Vector{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.vectorKey(id)
	}
	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi vectors: %w", err)
	}

	vectors := make([]domapproach.Vector, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		v, err := vectorFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse vector %s: %w", ids[i], err)
		}
		vectors = append(vectors, v)
	}
	sort.Slice(vectors, func(i, j int) bool {
		return vectors[i].CreatedAt().After(vectors[j].CreatedAt())
	})
	return vectors, nil
}

// Delete removes a vector and its index entries.
func (r *Repo) Delete(ctx context.Context, id string) error {
	v, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.Del(ctx, r.vectorKey(id)); err != nil {
		return fmt.Errorf("del vector %s: %w", id, err)
	}
	err = errors.Join(
		r.store.SRem(ctx, r.indexKey(), id),
		r.store.SRem(ctx, r.anchorIndexKey(v.AnchorID()), id),
	)
	if err != nil {
		return fmt.Errorf("unindex vector %s: %w", id, err)
	}
	return nil
}

// DeleteByAnchor removes every vector of an anchor along with the anchor's index set.
func (r *Repo) DeleteByAnchor(ctx context.Context, anchorID string) error {
	index := r.anchorIndexKey(anchorID)
	ids, err := r.store.SMembers(ctx, index)
	if err != nil {
		return fmt.Errorf("smembers %s: %w", index, err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, r.vectorKey(id))
	}
	keys = append(keys, index)
	if err := r.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("del vectors of anchor %s: %w", anchorID, err)
	}
	if err := r.store.SRem(ctx, r.indexKey(), ids...); err != nil {
		return fmt.Errorf("unindex vectors of anchor %s: %w", anchorID, err)
	}
	return nil
}

// Key patterns: {prefix}vector:{id}, {prefix}vectors, {prefix}anchor:{id}:vectors

func (r *Repo) vectorKey(id string) string {
	return fmt.Sprintf("%svector:%s", r.prefix, id)
}

func (r *Repo) indexKey() string {
	return r.prefix + "vectors"
}

func (r *Repo) anchorIndexKey(anchorID string) string {
	return fmt.Sprintf("%sanchor:%s:vectors", r.prefix, anchorID)
}
