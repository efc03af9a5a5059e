package magnetic

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/anchor/internal/domain"
	dommag "github.com/kailas-cloud/anchor/internal/domain/magnetic"
)

// Service handles magnetic fingerprint storage.
type Service struct {
	repo    Repository
	anchors AnchorChecker
}

// New creates a magnetic fingerprint service.
func New(repo Repository, anchors AnchorChecker) *Service {
	return &Service{repo: repo, anchors: anchors}
}

// Store replaces the magnetic fingerprint of an existing anchor.
func (s *Service) Store(ctx context.Context, anchorID string, p dommag.Params) (dommag.Fingerprint, error) {
	ok, err := s.anchors.Exists(ctx, anchorID)
	if err != nil {
		return dommag.Fingerprint{}, fmt.Errorf("check anchor: %w", err)
	}
	if !ok {
		return dommag.Fingerprint{}, fmt.Errorf("store magnetic fingerprint: %w", domain.ErrNotFound)
	}

	fp, err := dommag.New(uuid.New().String(), anchorID, p, time.Now())
	if err != nil {
		return dommag.Fingerprint{}, fmt.Errorf("validate magnetic fingerprint: %w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Replace(ctx, fp); err != nil {
		return dommag.Fingerprint{}, fmt.Errorf("store magnetic fingerprint: %w", err)
	}
	return fp, nil
}

// Get retrieves a fingerprint by ID.
func (s *Service) Get(ctx context.Context, id string) (dommag.Fingerprint, error) {
	fp, err := s.repo.Get(ctx, id)
	if err != nil {
		return dommag.Fingerprint{}, fmt.Errorf("get magnetic fingerprint: %w", err)
	}
	return fp, nil
}

// GetByAnchor retrieves the fingerprint recorded at an anchor.
func (s *Service) GetByAnchor(ctx context.Context, anchorID string) (dommag.Fingerprint, error) {
	fp, err := s.repo.GetByAnchor(ctx, anchorID)
	if err != nil {
		return dommag.Fingerprint{}, fmt.Errorf("get magnetic fingerprint of anchor: %w", err)
	}
	return fp, nil
}

// List returns every fingerprint, newest first.
func (s *Service) List(ctx context.Context) ([]dommag.Fingerprint, error) {
	fps, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list magnetic fingerprints: %w", err)
	}
	return fps, nil
}

// Delete removes a fingerprint.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete magnetic fingerprint: %w", err)
	}
	return nil
}
