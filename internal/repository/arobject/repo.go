package arobject

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/anchor/internal/domain"
	domobj "github.com/kailas-cloud/anchor/internal/domain/arobject"
)

// store is the consumer interface for AR objects (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements usecase/arobject.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates an AR object repository. An empty prefix falls back to domain.DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Save writes the object hash and adds it to the global and per-anchor indexes.
func (r *Repo) Save(ctx context.Context, o domobj.Object) error {
	key := r.objectKey(o.ID())
	if err := r.store.HSet(ctx, key, objectToHash(o)); err != nil {
		return fmt.Errorf("hset object %s: %w", o.ID(), err)
	}
	if err := r.store.SAdd(ctx, r.indexKey(), o.ID()); err != nil {
		return fmt.Errorf("index object %s: %w", o.ID(), err)
	}
	if err := r.store.SAdd(ctx, r.anchorIndexKey(o.AnchorID()), o.ID()); err != nil {
		return fmt.Errorf("index object %s under anchor %s: %w", o.ID(), o.AnchorID(), err)
	}
	return nil
}

// Get retrieves an object by ID.
func (r *Repo) Get(ctx context.Context, id string) (domobj.Object, error) {
	m, err := r.store.HGetAll(ctx, r.objectKey(id))
	if err != nil {
		return domobj.Object{}, fmt.Errorf("hgetall object %s: %w", id, err)
	}
	if len(m) == 0 {
		return domobj.Object{}, domain.ErrObjectNotFound
	}
	return objectFromHash(m)
}

// List returns every object, newest first.
func (r *Repo) List(ctx context.Context) ([]domobj.Object, error) {
	return r.listIndex(ctx, r.indexKey())
}

// ListByAnchor returns the objects placed around one anchor, newest first.
func (r *Repo) ListByAnchor(ctx context.Context, anchorID string) ([]domobj.Object, error) {
	return r.listIndex(ctx, r.anchorIndexKey(anchorID))
}

func (r *Repo) listIndex(ctx context.Context, index string) ([]domobj.Object, error) {
	ids, err := r.store.SMembers(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", index, err)
	}
	if len(ids) == 0 {
		return []domobj.Object{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.objectKey(id)
	}
	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi objects: %w", err)
	}

	objects := make([]domobj.Object, 0, len(results))
	for i, m := range results {
		// index entries can outlive a half-finished delete
		if len(m) == 0 {
			continue
		}
		o, err := objectFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse object %s: %w", ids[i], err)
		}
		objects = append(objects, o)
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].CreatedAt().After(objects[j].CreatedAt())
	})
	return objects, nil
}

// Delete removes the object hash and its index entries.
func (r *Repo) Delete(ctx context.Context, id string) error {
	o, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.Del(ctx, r.objectKey(id)); err != nil {
		return fmt.Errorf("del object %s: %w", id, err)
	}
	err = errors.Join(
		r.store.SRem(ctx, r.indexKey(), id),
		r.store.SRem(ctx, r.anchorIndexKey(o.AnchorID()), id),
	)
	if err != nil {
		return fmt.Errorf("unindex object %s: %w", id, err)
	}
	return nil
}

// DropAnchorIndex removes the per-anchor index set once its objects are gone.
func (r *Repo) DropAnchorIndex(ctx context.Context, anchorID string) error {
	if err := r.store.Del(ctx, r.anchorIndexKey(anchorID)); err != nil {
		return fmt.Errorf("del object index of anchor %s: %w", anchorID, err)
	}
	return nil
}

// Key patterns: {prefix}object:{id}, {prefix}objects, {prefix}anchor:{id}:objects

func (r *Repo) objectKey(id string) string {
	return fmt.Sprintf("%sobject:%s", r.prefix, id)
}

func (r *Repo) indexKey() string {
	return r.prefix + "objects"
}

func (r *Repo) anchorIndexKey(anchorID string) string {
	return fmt.Sprintf("%sanchor:%s:objects", r.prefix, anchorID)
}
