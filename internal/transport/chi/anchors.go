package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	anchoruc "github.com/kailas-cloud/anchor/internal/usecase/anchor"
)

// CreateAnchor handles POST /api/anchors.
func (s *Server) CreateAnchor(w http.ResponseWriter, r *http.Request) {
	var req CreateAnchorRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	if req.GPS == nil || req.GPS.Lat == nil || req.GPS.Lng == nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "GPS coordinates (lat, lng) are required")
		return
	}

	a, err := s.anchors.Create(r.Context(), anchoruc.CreateInput{
		Params:  anchorParamsFromRequest(&req),
		Samples: samplesFromRequest(req.Samples),
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, anchorToResponse(&a))
}

// ListAnchors handles GET /api/anchors.
func (s *Server) ListAnchors(w http.ResponseWriter, r *http.Request) {
	anchors, err := s.anchors.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]AnchorResponse, len(anchors))
	for i := range anchors {
		items[i] = anchorToResponse(&anchors[i])
	}
	writeJSON(w, http.StatusOK, items)
}

// GetAnchor handles GET /api/anchors/{id}.
func (s *Server) GetAnchor(w http.ResponseWriter, r *http.Request) {
	a, err := s.anchors.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, anchorToResponse(&a))
}

// UpdateAnchor handles PUT /api/anchors/{id}.
func (s *Server) UpdateAnchor(w http.ResponseWriter, r *http.Request) {
	var req UpdateAnchorRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	a, err := s.anchors.Update(r.Context(), chi.URLParam(r, "id"), anchorPatchFromRequest(&req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, anchorToResponse(&a))
}

// DeleteAnchor handles DELETE /api/anchors/{id}. Objects, fingerprints and
// approach vectors of the anchor go with it.
func (s *Server) DeleteAnchor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.anchors.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Message: "Anchor deleted", ID: id})
}

// ListAnchorObjects handles GET /api/anchors/{id}/objects.
func (s *Server) ListAnchorObjects(w http.ResponseWriter, r *http.Request) {
	objs, err := s.objects.ListByAnchor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, objectsToResponse(objs))
}
