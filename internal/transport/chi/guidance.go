package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	fingerprintuc "github.com/kailas-cloud/anchor/internal/usecase/fingerprint"
	guidanceuc "github.com/kailas-cloud/anchor/internal/usecase/guidance"
)

// Guide handles POST /api/guidance.
func (s *Server) Guide(w http.ResponseWriter, r *http.Request) {
	var req GuidanceRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	nets := networksFromRequest(req.CurrentNetworks)
	res, err := s.guidance.Guide(r.Context(), guidanceuc.Request{
		TargetObjectID: req.TargetObjectID,
		Networks:       nets,
		Heading:        req.CurrentHeading,
		SessionID:      req.SessionID,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guidanceToResponse(&res))
}

// ResetSession handles POST /api/guidance/reset-session.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	var req ResetSessionRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	n := s.guidance.ResetSession(req.ObjectID, req.SessionID)
	writeJSON(w, http.StatusOK, ResetSessionResponse{Reset: true, Cleared: n})
}

// StoreFingerprint handles POST /api/guidance/fingerprint/{objectId}.
func (s *Server) StoreFingerprint(w http.ResponseWriter, r *http.Request) {
	var req StoreFingerprintRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	if req.Networks == nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "networks array is required")
		return
	}

	fp, err := s.fingerprints.Store(r.Context(), fingerprintuc.StoreInput{
		ObjectID:  chi.URLParam(r, "objectId"),
		Networks:  networksFromRequest(req.Networks),
		RoomLabel: req.RoomLabel,
		Heading:   req.Heading,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, StoreFingerprintResponse{
		ID:           fp.ID(),
		ObjectID:     fp.ObjectID(),
		Stored:       true,
		NetworkCount: len(fp.Networks()),
		RoomLabel:    nullable(fp.RoomLabel()),
	})
}

// GetFingerprint handles GET /api/guidance/fingerprint/{objectId}.
func (s *Server) GetFingerprint(w http.ResponseWriter, r *http.Request) {
	fp, err := s.fingerprints.Get(r.Context(), chi.URLParam(r, "objectId"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fingerprintToResponse(&fp))
}

// DeleteFingerprint handles DELETE /api/guidance/fingerprint/{objectId}.
func (s *Server) DeleteFingerprint(w http.ResponseWriter, r *http.Request) {
	objectID := chi.URLParam(r, "objectId")
	if err := s.fingerprints.Delete(r.Context(), objectID); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteFingerprintResponse{Deleted: true, ObjectID: objectID})
}
