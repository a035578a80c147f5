package api

import (
	"net/http"

	"github.com/diirlabs/station-service/internal/middleware"
	apperrors "github.com/diirlabs/station-service/pkg/errors"
)

// handleWallets routes /v1/wallets.
//
//	POST returns the caller's wallet address, provisioning on first use.
//	GET returns the caller's wallet address without provisioning.
func (s *Server) handleWallets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleProvisionWallet(w, r)
	case http.MethodGet:
		s.handleGetWalletAddress(w, r)
	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) handleProvisionWallet(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	result, err := s.walletService.GetOrCreateWallet(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.UsedExistingWallet {
		status = http.StatusOK
	}
	s.writeJSON(w, status, result)
}

func (s *Server) handleGetWalletAddress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	address, err := s.walletService.GetWalletAddress(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if address == "" {
		s.writeError(w, r, apperrors.WalletNotFound(userID))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"address": address})
}

// handleWalletBalance returns the native balance of an address as a decimal
// ether string. Defaults to the caller's own wallet when no address is given.
func (s *Server) handleWalletBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	address := r.URL.Query().Get("address")
	if address == "" {
		userID := middleware.GetUserID(r.Context())
		own, err := s.walletService.GetWalletAddress(r.Context(), userID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if own == "" {
			s.writeError(w, r, apperrors.WalletNotFound(userID))
			return
		}
		address = own
	}

	balance, err := s.walletService.GetBalance(r.Context(), address)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"address": address,
		"balance": balance,
	})
}
