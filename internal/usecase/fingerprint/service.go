package fingerprint

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/anchor/internal/domain"
	"github.com/kailas-cloud/anchor/internal/domain/wifi"
)

// StoreInput is a captured scan for one object.
type StoreInput struct {
	ObjectID  string
	Networks  []wifi.Network // nil is rejected, empty is allowed
	RoomLabel string
	Heading   *float64
}

// Service stores and serves object fingerprints.
type Service struct {
	repo    Repository
	objects ObjectUpdater
}

// New creates a fingerprint service.
func New(repo Repository, objects ObjectUpdater) *Service {
	return &Service{repo: repo, objects: objects}
}

// Store replaces the object's fingerprint and records the room label and
// placement heading on the object when supplied.
func (s *Service) Store(ctx context.Context, in StoreInput) (wifi.Fingerprint, error) {
	if in.Networks == nil {
		return wifi.Fingerprint{}, domain.InvalidField("networks", "array is required")
	}

	ok, err := s.objects.Exists(ctx, in.ObjectID)
	if err != nil {
		return wifi.Fingerprint{}, fmt.Errorf("check object: %w", err)
	}
	if !ok {
		return wifi.Fingerprint{}, fmt.Errorf("store fingerprint: %w", domain.ErrObjectNotFound)
	}

	fp, err := wifi.NewFingerprint(uuid.New().String(), in.ObjectID, time.Now(), in.Networks, in.RoomLabel)
	if err != nil {
		return wifi.Fingerprint{}, fmt.Errorf("validate fingerprint: %w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Replace(ctx, fp); err != nil {
		return wifi.Fingerprint{}, fmt.Errorf("store fingerprint: %w", err)
	}
	if err := s.objects.SetRoomContext(ctx, in.ObjectID, in.RoomLabel, in.Heading); err != nil {
		return wifi.Fingerprint{}, fmt.Errorf("store fingerprint: %w", err)
	}
	return fp, nil
}

// Get returns the object's fingerprint.
func (s *Service) Get(ctx context.Context, objectID string) (wifi.Fingerprint, error) {
	fp, err := s.repo.Get(ctx, objectID)
	if err != nil {
		return wifi.Fingerprint{}, fmt.Errorf("get fingerprint: %w", err)
	}
	return fp, nil
}

// Delete removes the object's fingerprint.
func (s *Service) Delete(ctx context.Context, objectID string) error {
	if err := s.repo.Delete(ctx, objectID); err != nil {
		return fmt.Errorf("delete fingerprint: %w", err)
	}
	return nil
}
