package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/diirlabs/station-service/internal/middleware"
	apperrors "github.com/diirlabs/station-service/pkg/errors"
)

// MintStationRequest is the body of POST /v1/stations/mint.
type MintStationRequest struct {
	To   string `json:"to"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// MintSubsidizedRequest is the body of POST /v1/stations/mint/subsidized.
type MintSubsidizedRequest struct {
	To   string `json:"to"`
	Name string `json:"name"`
}

// SendTipsRequest is the body of POST /v1/tips/send. To accepts either a hex
// address or a station name.
type SendTipsRequest struct {
	To  string `json:"to"`
	Qty int64  `json:"qty"`
}

func (s *Server) handleMintStation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}

	var req MintStationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperrors.Input("invalid JSON body"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := s.stationService.MintStation(r.Context(), userID, req.To, req.Name, req.URI)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleMintSubsidized(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}

	var req MintSubsidizedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperrors.Input("invalid JSON body"))
		return
	}

	result, err := s.stationService.MintStationSubsidized(r.Context(), req.To, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleValidateName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	valid, err := s.stationService.ValidateStationName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

func (s *Server) handleStationOwner(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	owner, err := s.stationService.StationOwner(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"owner": owner})
}

func (s *Server) handleTokenURI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	tokenID, err := strconv.ParseInt(r.URL.Query().Get("tokenId"), 10, 64)
	if err != nil {
		s.writeError(w, r, apperrors.Input("tokenId must be an integer"))
		return
	}

	uri, err := s.stationService.TokenURI(r.Context(), tokenID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"token_uri": uri})
}

func (s *Server) handleCalculateTips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	qty, err := strconv.ParseInt(r.URL.Query().Get("qty"), 10, 64)
	if err != nil {
		s.writeError(w, r, apperrors.Input("qty must be an integer"))
		return
	}

	quote, err := s.stationService.CalculateTips(r.Context(), qty)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleSendTips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}

	var req SendTipsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperrors.Input("invalid JSON body"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := s.stationService.SendTips(r.Context(), userID, req.To, req.Qty)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleWithdrawTips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}

	txHash, err := s.stationService.WithdrawTips(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"tx_hash": txHash})
}
