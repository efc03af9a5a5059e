package anchor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/anchor/internal/domain"
	domanchor "github.com/kailas-cloud/anchor/internal/domain/anchor"
	"github.com/kailas-cloud/anchor/internal/domain/geo"
)

// CreateInput is a new anchor. Samples, when present, are averaged into the
// stored position instead of Params.Position.
type CreateInput struct {
	Params  domanchor.Params
	Samples []geo.Point
}

// Service handles anchor CRUD and the delete cascade.
type Service struct {
	repo         Repository
	objects      ObjectRepository
	fingerprints FingerprintRepository
	vectors      VectorRepository
	magnetic     MagneticRepository
	logger       *zap.Logger
}

// New creates an anchor service.
func New(
	repo Repository, objects ObjectRepository, fingerprints FingerprintRepository,
	vectors VectorRepository, magnetic MagneticRepository, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo: repo, objects: objects, fingerprints: fingerprints,
		vectors: vectors, magnetic: magnetic, logger: logger,
	}
}

// Create validates and stores a new anchor.
func (s *Service) Create(ctx context.Context, in CreateInput) (domanchor.Anchor, error) {
	p := in.Params
	if avg, ok := geo.AveragePosition(in.Samples); ok {
		p.Position = avg
		if p.Heading == nil {
			p.Heading = avg.Heading
		}
	}

	a, err := domanchor.New(uuid.New().String(), p, time.Now())
	if err != nil {
		return domanchor.Anchor{}, fmt.Errorf("validate anchor: %w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Save(ctx, a); err != nil {
		return domanchor.Anchor{}, fmt.Errorf("create anchor: %w", err)
	}
	return a, nil
}

// Get retrieves an anchor by ID.
func (s *Service) Get(ctx context.Context, id string) (domanchor.Anchor, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return domanchor.Anchor{}, fmt.Errorf("get anchor: %w", err)
	}
	return a, nil
}

// List returns all anchors, newest first.
func (s *Service) List(ctx context.Context) ([]domanchor.Anchor, error) {
	anchors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list anchors: %w", err)
	}
	return anchors, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, p domanchor.Patch) (domanchor.Anchor, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return domanchor.Anchor{}, fmt.Errorf("get anchor: %w", err)
	}
	updated, err := current.Apply(p, time.Now())
	if err != nil {
		return domanchor.Anchor{}, fmt.Errorf("validate anchor: %w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Save(ctx, updated); err != nil {
		return domanchor.Anchor{}, fmt.Errorf("update anchor: %w", err)
	}
	return updated, nil
}

// Delete removes an anchor with its objects and their fingerprints, its approach
// vectors and its magnetic fingerprint.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("get anchor: %w", err)
	}

	objects, err := s.objects.ListByAnchor(ctx, id)
	if err != nil {
		return fmt.Errorf("list anchor objects: %w", err)
	}
	ids := make([]string, len(objects))
	for i := range objects {
		ids[i] = objects[i].ID()
	}
	if err := s.fingerprints.DeleteMany(ctx, ids); err != nil {
		return fmt.Errorf("delete fingerprints: %w", err)
	}
	for _, objectID := range ids {
		if err := s.objects.Delete(ctx, objectID); err != nil && !errors.Is(err, domain.ErrObjectNotFound) {
			return fmt.Errorf("delete object %s: %w", objectID, err)
		}
	}
	if err := s.objects.DropAnchorIndex(ctx, id); err != nil {
		return fmt.Errorf("drop object index: %w", err)
	}
	if err := s.vectors.DeleteByAnchor(ctx, id); err != nil {
		return fmt.Errorf("delete approach vectors: %w", err)
	}
	if err := s.magnetic.DeleteByAnchor(ctx, id); err != nil {
		return fmt.Errorf("delete magnetic fingerprint: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete anchor: %w", err)
	}
	s.logger.Info("Anchor deleted",
		zap.String("anchor_id", id),
		zap.Int("objects", len(ids)),
	)
	return nil
}
