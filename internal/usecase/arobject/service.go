package arobject

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/anchor/internal/domain"
	domobj "github.com/kailas-cloud/anchor/internal/domain/arobject"
)

// Service handles AR object CRUD.
type Service struct {
	repo         Repository
	anchors      AnchorChecker
	fingerprints FingerprintRemover
}

// New creates an AR object service.
func New(repo Repository, anchors AnchorChecker, fingerprints FingerprintRemover) *Service {
	return &Service{repo: repo, anchors: anchors, fingerprints: fingerprints}
}

// Create validates and places a new object. The anchor must exist.
func (s *Service) Create(ctx context.Context, p domobj.Params) (domobj.Object, error) {
	o, err := domobj.New(uuid.New().String(), p, time.Now())
	if err != nil {
		return domobj.Object{}, fmt.Errorf("validate object: %w: %w", domain.ErrInvalidInput, err)
	}

	ok, err := s.anchors.Exists(ctx, p.AnchorID)
	if err != nil {
		return domobj.Object{}, fmt.Errorf("check anchor: %w", err)
	}
	if !ok {
		return domobj.Object{}, fmt.Errorf("create object: %w", domain.ErrNotFound)
	}

	if err := s.repo.Save(ctx, o); err != nil {
		return domobj.Object{}, fmt.Errorf("create object: %w", err)
	}
	return o, nil
}

// Get retrieves an object by ID.
func (s *Service) Get(ctx context.Context, id string) (domobj.Object, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return domobj.Object{}, fmt.Errorf("get object: %w", err)
	}
	return o, nil
}

// List returns every object, newest first.
func (s *Service) List(ctx context.Context) ([]domobj.Object, error) {
	objects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	return objects, nil
}

// ListByAnchor returns the objects of one anchor, newest first.
// An unknown anchor simply has no objects.
func (s *Service) ListByAnchor(ctx context.Context, anchorID string) ([]domobj.Object, error) {
	objects, err := s.repo.ListByAnchor(ctx, anchorID)
	if err != nil {
		return nil, fmt.Errorf("list anchor objects: %w", err)
	}
	return objects, nil
}

// Exists reports whether an object is stored.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrObjectNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("get object: %w", err)
	}
}

// Update applies a partial update of the mutable fields.
func (s *Service) Update(ctx context.Context, id string, p domobj.Patch) (domobj.Object, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return domobj.Object{}, fmt.Errorf("get object: %w", err)
	}
	updated, err := current.Apply(p)
	if err != nil {
		return domobj.Object{}, fmt.Errorf("validate object: %w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Save(ctx, updated); err != nil {
		return domobj.Object{}, fmt.Errorf("update object: %w", err)
	}
	return updated, nil
}

// SetRoomContext overwrites the room label and placement heading when given.
// Empty room and nil heading keep the stored values.
func (s *Service) SetRoomContext(ctx context.Context, id, room string, heading *float64) error {
	if room == "" && heading == nil {
		return nil
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get object: %w", err)
	}
	if err := s.repo.Save(ctx, current.WithRoomContext(room, heading)); err != nil {
		return fmt.Errorf("update object room: %w", err)
	}
	return nil
}

// Delete removes an object and its fingerprint.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	if err := s.fingerprints.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrFingerprintNotFound) {
		return fmt.Errorf("delete fingerprint: %w", err)
	}
	return nil
}
