package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// StoreMagnetic handles POST /api/anchors/{id}/fingerprint. Any previous
// magnetic fingerprint of the anchor is replaced.
func (s *Server) StoreMagnetic(w http.ResponseWriter, r *http.Request) {
	var req StoreMagneticRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	if !req.complete() {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Magnitude and vector (x, y, z) are required")
		return
	}

	fp, err := s.magnetic.Store(r.Context(), chi.URLParam(r, "id"), req.params())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, magneticToResponse(&fp))
}

// GetAnchorMagnetic handles GET /api/anchors/{id}/fingerprint.
func (s *Server) GetAnchorMagnetic(w http.ResponseWriter, r *http.Request) {
	fp, err := s.magnetic.GetByAnchor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, magneticToResponse(&fp))
}

// ListMagnetic handles GET /api/fingerprints.
func (s *Server) ListMagnetic(w http.ResponseWriter, r *http.Request) {
	fps, err := s.magnetic.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out := make([]MagneticResponse, len(fps))
	for i := range fps {
		out[i] = magneticToResponse(&fps[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// GetMagnetic handles GET /api/fingerprints/{id}.
func (s *Server) GetMagnetic(w http.ResponseWriter, r *http.Request) {
	fp, err := s.magnetic.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, magneticToResponse(&fp))
}

// DeleteMagnetic handles DELETE /api/fingerprints/{id}.
func (s *Server) DeleteMagnetic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.magnetic.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Message: "Magnetic fingerprint deleted", ID: id})
}
