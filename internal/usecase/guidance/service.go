package guidance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/anchor/internal/domain"
	domobj "github.com/kailas-cloud/anchor/internal/domain/arobject"
	"github.com/kailas-cloud/anchor/internal/domain/direction"
	"github.com/kailas-cloud/anchor/internal/domain/geo"
	"github.com/kailas-cloud/anchor/internal/domain/phase"
	"github.com/kailas-cloud/anchor/internal/domain/proximity"
	"github.com/kailas-cloud/anchor/internal/metrics"
)

const (
	unregisteredLabel       = "Unregistered Object"
	unregisteredDescription = "Object not yet registered for guidance. Save it via AR mode to enable WiFi guidance."
)

// Service answers guidance requests.
type Service struct {
	objects      ObjectReader
	anchors      AnchorReader
	fingerprints FingerprintReader
	sessions     SessionTracker
	cfg          domain.GuidanceConfig
	logger       *zap.Logger
}

// New creates a guidance service. The tracker is owned by the caller.
func New(
	objects ObjectReader, anchors AnchorReader, fingerprints FingerprintReader,
	sessions SessionTracker, cfg domain.GuidanceConfig, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		objects:      objects,
		anchors:      anchors,
		fingerprints: fingerprints,
		sessions:     sessions,
		cfg:          cfg,
		logger:       logger,
	}
}

// Guide scores the live scan against the object's fingerprint, smooths it for
// the session and returns the phase and direction. Missing signal degrades to
// FAR and never fails; only a malformed request or a storage failure errors.
func (s *Service) Guide(ctx context.Context, req Request) (Result, error) {
	if req.TargetObjectID == "" {
		return Result{}, domain.InvalidField("targetObjectId", "is required")
	}
	heading, err := normalizeHeading(req.Heading)
	if err != nil {
		return Result{}, err
	}

	obj, err := s.objects.Get(ctx, req.TargetObjectID)
	if errors.Is(err, domain.ErrObjectNotFound) {
		s.logger.Warn("Guidance requested for unregistered object",
			zap.String("object_id", req.TargetObjectID))
		metrics.GuidanceRequestsTotal.WithLabelValues(string(phase.Far)).Inc()
		return unregistered(req.TargetObjectID), nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("get object: %w", err)
	}

	targetRoom := obj.RoomLabel()
	raw := 0.0
	fp, err := s.fingerprints.Get(ctx, obj.ID())
	switch {
	case err == nil:
		raw = fp.Score(req.Networks)
		if fp.RoomLabel() != "" {
			targetRoom = fp.RoomLabel()
		}
		metrics.GuidanceSimilarity.Observe(raw)
	case errors.Is(err, domain.ErrFingerprintNotFound):
	case errors.Is(err, domain.ErrCorruptRecord):
		s.logger.Warn("Ignoring unreadable fingerprint",
			zap.String("object_id", obj.ID()),
			zap.Error(err))
	default:
		return Result{}, fmt.Errorf("get fingerprint: %w", err)
	}
	if targetRoom == "" {
		targetRoom = UnknownRoom
	}

	smoothed := s.sessions.Update(obj.ID(), req.SessionID, raw, targetRoom)
	current := smoothed.ConfirmedRoom
	if current == "" {
		current = UnknownRoom
	}

	ph := phase.Classify(smoothed.Smoothed)
	placement := obj.PlacementHeading()
	metrics.GuidanceRequestsTotal.WithLabelValues(string(ph)).Inc()

	return Result{
		Phase:            ph,
		PhaseDescription: ph.Description(),
		Confidence:       smoothed.Smoothed,
		RawSimilarity:    raw,
		Room: RoomMatch{
			TargetRoom:        targetRoom,
			LikelyCurrentRoom: current,
			Similarity:        smoothed.Smoothed,
		},
		Direction: direction.FromSignal(heading, &placement, smoothed.Smoothed),
		Object: ObjectSummary{
			ID:             obj.ID(),
			Label:          obj.Label(),
			Description:    obj.Description(),
			Elevation:      obj.Elevation(),
			ReferencePhoto: obj.ReferencePhoto(),
			Registered:     true,
		},
		ShowGhostImage:       ph.ShowGhostImage(),
		ShowDirectionalArrow: ph.ShowDirectionalArrow(),
	}, nil
}

func unregistered(objectID string) Result {
	return Result{
		Phase:            phase.Far,
		PhaseDescription: unregisteredDescription,
		Room: RoomMatch{
			TargetRoom:        UnknownRoom,
			LikelyCurrentRoom: UnknownRoom,
		},
		Direction:            direction.Unregistered(),
		Object:               ObjectSummary{ID: objectID, Label: unregisteredLabel},
		ShowGhostImage:       false,
		ShowDirectionalArrow: true,
	}
}

// Scan computes geodesic guidance for every object, or only those of
// req.AnchorID, sorted by rounded distance to their anchor. Objects whose
// anchor no longer exists are skipped.
func (s *Service) Scan(ctx context.Context, req ScanRequest) ([]ScanItem, error) {
	if err := validatePosition(req.Position); err != nil {
		return nil, err
	}
	if math.IsNaN(req.Heading) || math.IsInf(req.Heading, 0) {
		return nil, domain.InvalidField("currentHeading", "must be a finite number")
	}

	var (
		objects []domobj.Object
		err     error
	)
	if req.AnchorID != "" {
		objects, err = s.objects.ListByAnchor(ctx, req.AnchorID)
	} else {
		objects, err = s.objects.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	if len(objects) == 0 {
		return []ScanItem{}, nil
	}

	ids := make([]string, 0, len(objects))
	seen := make(map[string]struct{}, len(objects))
	for i := range objects {
		id := objects[i].AnchorID()
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	anchors, err := s.anchors.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get anchors: %w", err)
	}

	items := make([]ScanItem, 0, len(objects))
	for i := range objects {
		obj := &objects[i]
		a, ok := anchors[obj.AnchorID()]
		if !ok {
			s.logger.Debug("Skipping object with missing anchor",
				zap.String("object_id", obj.ID()),
				zap.String("anchor_id", obj.AnchorID()))
			continue
		}
		anchorPos := a.Position()
		toAnchor := geo.Distance(req.Position, anchorPos)
		target := direction.TargetHeading(req.Position, anchorPos, obj.BearingFromAnchor())

		items = append(items, ScanItem{
			ObjectID:         obj.ID(),
			Label:            obj.Label(),
			ReferencePhoto:   obj.ReferencePhoto(),
			Steering:         direction.Steer(geo.Normalize(req.Heading), target, s.cfg.AlignmentToleranceDeg),
			Proximity:        direction.ClassifyDistance(toAnchor),
			DistanceToAnchor: toAnchor,
			DistanceHint:     direction.DistanceHint(toAnchor, obj.DistanceFromAnchor()),
			ElevationHint:    obj.Elevation().Text(),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return direction.Round(items[i].DistanceToAnchor) < direction.Round(items[j].DistanceToAnchor)
	})
	return items, nil
}

// Nearby returns objects whose capture point is within the gate radius and
// whose capture heading falls inside the heading cone, closest first.
func (s *Service) Nearby(ctx context.Context, req NearbyRequest) ([]NearbyItem, error) {
	if err := validatePosition(req.Position); err != nil {
		return nil, err
	}
	heading, err := normalizeHeading(req.Heading)
	if err != nil {
		return nil, err
	}

	opts := proximity.Options{RadiusMeters: s.cfg.GateRadiusMeters, ConeDegrees: s.cfg.GateConeDegrees}
	if req.RadiusMeters > 0 {
		opts.RadiusMeters = req.RadiusMeters
	}
	if req.ConeDegrees > 0 {
		opts.ConeDegrees = req.ConeDegrees
	}

	objects, err := s.objects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	kept := proximity.Apply(req.Position, heading, objects, opts)
	items := make([]NearbyItem, len(kept))
	for i, obj := range kept {
		p, _ := obj.Location()
		items[i] = NearbyItem{Object: obj, Distance: geo.Distance(req.Position, p)}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Distance < items[j].Distance })
	return items, nil
}

// ResetSession drops smoothing state. See Tracker.Reset for the key selection.
func (s *Service) ResetSession(objectID, sessionID string) int {
	n := s.sessions.Reset(objectID, sessionID)
	s.logger.Debug("Guidance sessions reset",
		zap.String("object_id", objectID),
		zap.String("session_id", sessionID),
		zap.Int("removed", n))
	return n
}

func normalizeHeading(h *float64) (*float64, error) {
	if h == nil {
		return nil, nil
	}
	if math.IsNaN(*h) || math.IsInf(*h, 0) {
		return nil, domain.InvalidField("currentHeading", "must be a finite number")
	}
	n := geo.Normalize(*h)
	return &n, nil
}

func validatePosition(p geo.Point) error {
	if !geo.ValidateCoordinates(p.Latitude, p.Longitude) {
		return domain.InvalidField("position", "latitude must be in [-90,90] and longitude in [-180,180]")
	}
	return nil
}

var _ SessionTracker = (*Tracker)(nil)
