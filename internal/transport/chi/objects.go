package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/anchor/internal/domain/geo"
	guidanceuc "github.com/kailas-cloud/anchor/internal/usecase/guidance"
)

// CreateObject handles POST /api/objects.
func (s *Server) CreateObject(w http.ResponseWriter, r *http.Request) {
	var req CreateObjectRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	if msg := req.missingField(); msg != "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, msg)
		return
	}

	obj, err := s.objects.Create(r.Context(), req.params())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, objectToResponse(&obj))
}

// ListObjects handles GET /api/objects.
func (s *Server) ListObjects(w http.ResponseWriter, r *http.Request) {
	objs, err := s.objects.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, objectsToResponse(objs))
}

// GetObject handles GET /api/objects/{id}.
func (s *Server) GetObject(w http.ResponseWriter, r *http.Request) {
	obj, err := s.objects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, objectToResponse(&obj))
}

// UpdateObject handles PUT /api/objects/{id}.
func (s *Server) UpdateObject(w http.ResponseWriter, r *http.Request) {
	var req UpdateObjectRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	obj, err := s.objects.Update(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, objectToResponse(&obj))
}

// DeleteObject handles DELETE /api/objects/{id}.
func (s *Server) DeleteObject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.objects.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Message: "AR object deleted", ID: id})
}

// scanParams are the query parameters of GET /api/objects/guidance.
type scanParams struct {
	AnchorID       *string
	CurrentHeading *float64
	CurrentLat     *float64
	CurrentLng     *float64
}

func bindScanParams(r *http.Request) (scanParams, error) {
	var p scanParams
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "anchorId", q, &p.AnchorID); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "currentHeading", q, &p.CurrentHeading); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "currentLat", q, &p.CurrentLat); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "currentLng", q, &p.CurrentLng); err != nil {
		return p, err
	}
	return p, nil
}

// ScanObjects handles GET /api/objects/guidance: geodesic guidance toward
// every object, optionally of one anchor, closest anchor first.
func (s *Server) ScanObjects(w http.ResponseWriter, r *http.Request) {
	params, err := bindScanParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid query parameter: "+err.Error())
		return
	}
	if params.CurrentHeading == nil || params.CurrentLat == nil || params.CurrentLng == nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Required: currentHeading, currentLat, currentLng")
		return
	}

	req := guidanceuc.ScanRequest{
		Heading:  *params.CurrentHeading,
		Position: geo.At(*params.CurrentLat, *params.CurrentLng),
	}
	if params.AnchorID != nil {
		req.AnchorID = *params.AnchorID
	}

	items, err := s.guidance.Scan(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scanToResponse(items))
}

// NearbyObjects handles POST /api/objects/nearby.
func (s *Server) NearbyObjects(w http.ResponseWriter, r *http.Request) {
	var req NearbyRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	if req.Lat == nil || req.Lng == nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "lat and lng are required")
		return
	}

	pos := geo.At(*req.Lat, *req.Lng)
	pos.Accuracy = req.Accuracy
	items, err := s.guidance.Nearby(r.Context(), guidanceuc.NearbyRequest{
		Position:     pos,
		Heading:      req.Heading,
		RadiusMeters: req.RadiusMeters,
		ConeDegrees:  req.ConeDegrees,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out := make([]NearbyObject, len(items))
	for i := range items {
		out[i] = NearbyObject{ObjectResponse: objectToResponse(&items[i].Object), Distance: items[i].Distance}
	}
	writeJSON(w, http.StatusOK, NearbyResponse{Objects: out})
}
