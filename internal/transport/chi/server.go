package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	anchoruc "github.com/kailas-cloud/anchor/internal/usecase/anchor"
	approachuc "github.com/kailas-cloud/anchor/internal/usecase/approach"
	objectuc "github.com/kailas-cloud/anchor/internal/usecase/arobject"
	fingerprintuc "github.com/kailas-cloud/anchor/internal/usecase/fingerprint"
	guidanceuc "github.com/kailas-cloud/anchor/internal/usecase/guidance"
	healthuc "github.com/kailas-cloud/anchor/internal/usecase/health"
	magneticuc "github.com/kailas-cloud/anchor/internal/usecase/magnetic"
	"github.com/kailas-cloud/anchor/internal/version"
)

// Server holds the HTTP handlers of the guidance API.
type Server struct {
	anchors       *anchoruc.Service
	objects       *objectuc.Service
	fingerprints  *fingerprintuc.Service
	vectors       *approachuc.Service
	magnetic      *magneticuc.Service
	guidance      *guidanceuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	anchors *anchoruc.Service,
	objects *objectuc.Service,
	fingerprints *fingerprintuc.Service,
	vectors *approachuc.Service,
	magnetic *magneticuc.Service,
	guidance *guidanceuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		anchors:       anchors,
		objects:       objects,
		fingerprints:  fingerprints,
		vectors:       vectors,
		magnetic:      magnetic,
		guidance:      guidance,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.HealthCheck)

		r.Route("/guidance", func(r chi.Router) {
			r.Post("/", s.Guide)
			r.Post("/reset-session", s.ResetSession)
			r.Post("/fingerprint/{objectId}", s.StoreFingerprint)
			r.Get("/fingerprint/{objectId}", s.GetFingerprint)
			r.Delete("/fingerprint/{objectId}", s.DeleteFingerprint)
		})

		r.Route("/objects", func(r chi.Router) {
			r.Get("/", s.ListObjects)
			r.Post("/", s.CreateObject)
			r.Get("/guidance", s.ScanObjects)
			r.Post("/nearby", s.NearbyObjects)
			r.Get("/{id}", s.GetObject)
			r.Put("/{id}", s.UpdateObject)
			r.Delete("/{id}", s.DeleteObject)
		})

		r.Route("/anchors", func(r chi.Router) {
			r.Get("/", s.ListAnchors)
			r.Post("/", s.CreateAnchor)
			r.Get("/{id}", s.GetAnchor)
			r.Put("/{id}", s.UpdateAnchor)
			r.Delete("/{id}", s.DeleteAnchor)
			r.Get("/{id}/objects", s.ListAnchorObjects)
			r.Get("/{id}/vectors", s.ListAnchorVectors)
			r.Post("/{id}/vectors", s.CreateVector)
			r.Get("/{id}/fingerprint", s.GetAnchorMagnetic)
			r.Post("/{id}/fingerprint", s.StoreMagnetic)
		})

		r.Route("/fingerprints", func(r chi.Router) {
			r.Get("/", s.ListMagnetic)
			r.Get("/{id}", s.GetMagnetic)
			r.Delete("/{id}", s.DeleteMagnetic)
		})

		r.Route("/vectors", func(r chi.Router) {
			r.Get("/", s.ListVectors)
			r.Get("/{id}", s.GetVector)
			r.Delete("/{id}", s.DeleteVector)
		})
	})
}

// HealthCheck handles GET /api/health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:         string(report.Status),
		Checks:         checks,
		ActiveSessions: report.ActiveSessions,
		Build:          version.Get(),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeBody reads a JSON body into dst and writes a 400 on failure.
// An empty body is accepted when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}
	writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
	return false
}
