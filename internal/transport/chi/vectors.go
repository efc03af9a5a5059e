package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	approachuc "github.com/kailas-cloud/anchor/internal/usecase/approach"
)

// CreateVector handles POST /api/anchors/{id}/vectors.
func (s *Server) CreateVector(w http.ResponseWriter, r *http.Request) {
	var req CreateVectorRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	v, err := s.vectors.Create(r.Context(), approachuc.CreateInput{
		AnchorID:      chi.URLParam(r, "id"),
		Waypoints:     samplesFromRequest(req.Waypoints),
		TotalDistance: req.TotalDistance,
		AvgHeading:    req.AvgHeading,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vectorToResponse(&v))
}

// ListAnchorVectors handles GET /api/anchors/{id}/vectors.
func (s *Server) ListAnchorVectors(w http.ResponseWriter, r *http.Request) {
	vs, err := s.vectors.ListByAnchor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vectorsToResponse(vs))
}

// ListVectors handles GET /api/vectors.
func (s *Server) ListVectors(w http.ResponseWriter, r *http.Request) {
	vs, err := s.vectors.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vectorsToResponse(vs))
}

// GetVector handles GET /api/vectors/{id}.
func (s *Server) GetVector(w http.ResponseWriter, r *http.Request) {
	v, err := s.vectors.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vectorToResponse(&v))
}

// DeleteVector handles DELETE /api/vectors/{id}.
func (s *Server) DeleteVector(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.vectors.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Message: "Approach vector deleted", ID: id})
}
