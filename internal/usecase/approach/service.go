package approach

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/anchor/internal/domain"
	domapproach "github.com/kailas-cloud/anchor/internal/domain/approach"
	"github.com/kailas-cloud/anchor/internal/domain/geo"
)

// CreateInput is a recorded trail. Nil totals are derived from the waypoints.
type CreateInput struct {
	AnchorID      string
	Waypoints     []geo.Point
	TotalDistance *float64
	AvgHeading    *float64
}

// Service handles approach vector CRUD.
type Service struct {
	repo    Repository
	anchors AnchorChecker
}

// New creates an approach vector service.
func New(repo Repository, anchors AnchorChecker) *Service {
	return &Service{repo: repo, anchors: anchors}
}

// Create stores a trail leading to an existing anchor.
func (s *Service) Create(ctx context.Context, in CreateInput) (domapproach.Vector, error) {
	ok, err := s.anchors.Exists(ctx, in.AnchorID)
	if err != nil {
		return domapproach.Vector{}, fmt.Errorf("check anchor: %w", err)
	}
	if !ok {
		return domapproach.Vector{}, fmt.Errorf("create approach vector: %w", domain.ErrNotFound)
	}

	v, err := domapproach.New(uuid.New().String(), in.AnchorID, in.Waypoints, in.TotalDistance, in.AvgHeading, time.Now())
	if err != nil {
		return domapproach.Vector{}, fmt.Errorf("validate approach vector: %w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return domapproach.Vector{}, fmt.Errorf("create approach vector: %w", err)
	}
	return v, nil
}

// Get retrieves a vector by ID.
func (s *Service) Get(ctx context.Context, id string) (domapproach.Vector, error) {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return domapproach.Vector{}, fmt.Errorf("get approach vector: %w", err)
	}
	return v, nil
}

// List returns every vector, newest first.
func (s *Service) List(ctx context.Context) ([]domapproach.Vector, error) {
	vectors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list approach vectors: %w", err)
	}
	return vectors, nil
}

// ListByAnchor returns the vectors of one anchor, newest first.
func (s *Service) ListByAnchor(ctx context.Context, anchorID string) ([]domapproach.Vector, error) {
	vectors, err := s.repo.ListByAnchor(ctx, anchorID)
	if err != nil {
		return nil, fmt.Errorf("list approach vectors: %w", err)
	}
	return vectors, nil
}

// Delete removes a vector.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete approach vector: %w", err)
	}
	return nil
}
