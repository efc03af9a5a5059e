package fingerprint

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/anchor/internal/domain"
	"github.com/kailas-cloud/anchor/internal/domain/wifi"
)

// store is the consumer interface for fingerprints (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo implements usecase/fingerprint.Repository and the guidance fingerprint reader.
type Repo struct {
	store  store
	prefix string
}

// New creates a fingerprint repository. An empty prefix falls back to domain.DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Replace stores fp as the only fingerprint of its object.
// The previous record is deleted first so fields never merge.
func (r *Repo) Replace(ctx context.Context, fp wifi.Fingerprint) error {
	key := r.key(fp.ObjectID())
	fields, err := fingerprintToHash(fp)
	if err != nil {
		return err
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del fingerprint %s: %w", fp.ObjectID(), err)
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset fingerprint %s: %w", fp.ObjectID(), err)
	}
	return nil
}

// Get returns the fingerprint of an object.
// A stored record that cannot be decoded yields domain.ErrCorruptRecord.
func (r *Repo) Get(ctx context.Context, objectID string) (wifi.Fingerprint, error) {
	m, err := r.store.HGetAll(ctx, r.key(objectID))
	if err != nil {
		return wifi.Fingerprint{}, fmt.Errorf("hgetall fingerprint %s: %w", objectID, err)
	}
	if len(m) == 0 {
		return wifi.Fingerprint{}, domain.ErrFingerprintNotFound
	}
	fp, err := fingerprintFromHash(m)
	if err != nil {
		return wifi.Fingerprint{}, fmt.Errorf("fingerprint %s: %w: %w", objectID, domain.ErrCorruptRecord, err)
	}
	return fp, nil
}

// Delete removes the fingerprint of an object.
func (r *Repo) Delete(ctx context.Context, objectID string) error {
	key := r.key(objectID)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrFingerprintNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del fingerprint %s: %w", objectID, err)
	}
	return nil
}

// DeleteMany removes the fingerprints of several objects, ignoring ones that do not exist.
func (r *Repo) DeleteMany(ctx context.Context, objectIDs []string) error {
	if len(objectIDs) == 0 {
		return nil
	}
	keys := make([]string, len(objectIDs))
	for i, id := range objectIDs {
		keys[i] = r.key(id)
	}
	if err := r.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("del fingerprints: %w", err)
	}
	return nil
}

// Key pattern: {prefix}fingerprint:{objectId}
func (r *Repo) key(objectID string) string {
	return fmt.Sprintf("%sfingerprint:%s", r.prefix, objectID)
}
