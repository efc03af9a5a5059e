package magnetic

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/anchor/internal/domain"
	dommag "github.com/kailas-cloud/anchor/internal/domain/magnetic"
)

// store is the consumer interface for magnetic fingerprints (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements usecase/magnetic.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a magnetic fingerprint repository. An empty prefix falls back to domain.DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Replace stores fp as the only magnetic fingerprint of its anchor,
// deleting whatever the anchor had before.
func (r *Repo) Replace(ctx context.Context, fp dommag.Fingerprint) error {
	fields, err := fingerprintToHash(fp)
	if err != nil {
		return err
	}
	if err := r.DeleteByAnchor(ctx, fp.AnchorID()); err != nil {
		return err
	}

	key := r.fingerprintKey(fp.ID())
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset magnetic fingerprint %s: %w", fp.ID(), err)
	}
	err = errors.Join(
		r.store.SAdd(ctx, r.indexKey(), fp.ID()),
		r.store.SAdd(ctx, r.anchorKey(fp.AnchorID()), fp.ID()),
	)
	if err != nil {
		cleanupErr := r.store.Del(ctx, key)
		return errors.Join(fmt.Errorf("index magnetic fingerprint %s: %w", fp.ID(), err), cleanupErr)
	}
	return nil
}

// Get retrieves a fingerprint by ID.
func (r *Repo) Get(ctx context.Context, id string) (dommag.Fingerprint, error) {
	m, err := r.store.HGetAll(ctx, r.fingerprintKey(id))
	if err != nil {
		return dommag.Fingerprint{}, fmt.Errorf("hgetall magnetic fingerprint %s: %w", id, err)
	}
	if len(m) == 0 {
		return dommag.Fingerprint{}, domain.ErrMagneticNotFound
	}
	fp, err := fingerprintFromHash(m)
	if err != nil {
		return dommag.Fingerprint{}, fmt.Errorf("magnetic fingerprint %s: %w: %w", id, domain.ErrCorruptRecord, err)
	}
	return fp, nil
}

// GetByAnchor returns the fingerprint recorded at an anchor.
func (r *Repo) GetByAnchor(ctx context.Context, anchorID string) (dommag.Fingerprint, error) {
	ids, err := r.store.SMembers(ctx, r.anchorKey(anchorID))
	if err != nil {
		return dommag.Fingerprint{}, fmt.Errorf("smembers magnetic of anchor %s: %w", anchorID, err)
	}
	for _, id := range ids {
		fp, err := r.Get(ctx, id)
		if errors.Is(err, domain.ErrMagneticNotFound) {
			continue
		}
		return fp, err
	}
	return dommag.Fingerprint{}, domain.ErrMagneticNotFound
}

// List returns every fingerprint, newest first.
func (r *Repo) List(ctx context.Context) ([]dommag.Fingerprint, error) {
	ids, err := r.store.SMembers(ctx, r.indexKey())
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", r.indexKey(), err)
	}
	if len(ids) == 0 {
		return []dommag.Fingerprint{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.fingerprintKey(id)
	}
	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi magnetic fingerprints: %w", err)
	}

	out := make([]dommag.Fingerprint, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		fp, err := fingerprintFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse magnetic fingerprint %s: %w", ids[i], err)
		}
		out = append(out, fp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

// Delete removes a fingerprint and its index entries.
func (r *Repo) Delete(ctx context.Context, id string) error {
	fp, err := r.Get(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrCorruptRecord) {
		return err
	}
	if err := r.store.Del(ctx, r.fingerprintKey(id)); err != nil {
		return fmt.Errorf("del magnetic fingerprint %s: %w", id, err)
	}
	unindex := []error{r.store.SRem(ctx, r.indexKey(), id)}
	if fp.AnchorID() != "" {
		unindex = append(unindex, r.store.SRem(ctx, r.anchorKey(fp.AnchorID()), id))
	}
	if err := errors.Join(unindex...); err != nil {
		return fmt.Errorf("unindex magnetic fingerprint %s: %w", id, err)
	}
	return nil
}

// DeleteByAnchor removes the fingerprint of an anchor, if any, with the anchor's pointer set.
func (r *Repo) DeleteByAnchor(ctx context.Context, anchorID string) error {
	pointer := r.anchorKey(anchorID)
	ids, err := r.store.SMembers(ctx, pointer)
	if err != nil {
		return fmt.Errorf("smembers %s: %w", pointer, err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, r.fingerprintKey(id))
	}
	keys = append(keys, pointer)
	if err := r.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("del magnetic fingerprint of anchor %s: %w", anchorID, err)
	}
	if err := r.store.SRem(ctx, r.indexKey(), ids...); err != nil {
		return fmt.Errorf("unindex magnetic fingerprint of anchor %s: %w", anchorID, err)
	}
	return nil
}

// Key patterns: {prefix}magnetic:{id}, {prefix}magnetics, {prefix}anchor:{id}:magnetic

func (r *Repo) fingerprintKey(id string) string {
	return fmt.Sprintf("%smagnetic:%s", r.prefix, id)
}

func (r *Repo) indexKey() string {
	return r.prefix + "magnetics"
}

func (r *Repo) anchorKey(anchorID string) string {
	return fmt.Sprintf("%sanchor:%s:magnetic", r.prefix, anchorID)
}
