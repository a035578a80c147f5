package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/diirlabs/station-service/pkg/errors"
)

// StatusCallbackRequest is the body posted by the publish and upload
// pipelines when a task changes state.
type StatusCallbackRequest struct {
	Station string `json:"station"`
	Status  string `json:"status"`
}

// handlePublishStatus routes /v1/status/publish.
//
//	POST records a pipeline callback.
//	GET polls the latest recorded state for a station.
func (s *Server) handlePublishStatus(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		req, ok := s.decodeStatusCallback(w, r)
		if !ok {
			return
		}
		if err := s.statusService.RecordPublishUpdated(r.Context(), req.Station, req.Status); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})

	case http.MethodGet:
		record, err := s.statusService.PublishStatus(r.Context(), r.URL.Query().Get("station"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, record)

	default:
		s.methodNotAllowed(w)
	}
}

// handleUploadStatus routes /v1/status/upload the same way.
func (s *Server) handleUploadStatus(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		req, ok := s.decodeStatusCallback(w, r)
		if !ok {
			return
		}
		if err := s.statusService.RecordUploadFinished(r.Context(), req.Station, req.Status); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})

	case http.MethodGet:
		record, err := s.statusService.UploadStatus(r.Context(), r.URL.Query().Get("station"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, record)

	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) decodeStatusCallback(w http.ResponseWriter, r *http.Request) (*StatusCallbackRequest, bool) {
	var req StatusCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperrors.Input("invalid JSON body"))
		return nil, false
	}
	return &req, true
}
