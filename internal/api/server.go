package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/diirlabs/station-service/internal/logger"
	"github.com/diirlabs/station-service/internal/middleware"
	apperrors "github.com/diirlabs/station-service/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server
type Server struct {
	port           int
	walletService  WalletService
	stationService StationService
	statusService  StatusService
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
	httpServer     *http.Server
}

// NewServer creates a new API server
func NewServer(
	port int,
	walletService WalletService,
	stationService StationService,
	statusService StatusService,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Server {
	return &Server{
		port:           port,
		walletService:  walletService,
		stationService: stationService,
		statusService:  statusService,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
	}
}

// Handler builds the full route table with its middleware chains.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Operational endpoints (no auth)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	// Wallet routes: caller identity required
	mux.Handle("/v1/wallets",
		s.authMiddleware.Authenticate(http.HandlerFunc(s.handleWallets)))
	mux.Handle("/v1/wallets/balance",
		s.authMiddleware.Authenticate(http.HandlerFunc(s.handleWalletBalance)))

	// Station reads are public; mints require identity
	mux.Handle("/v1/stations/mint",
		s.authMiddleware.Authenticate(http.HandlerFunc(s.handleMintStation)))
	mux.Handle("/v1/stations/mint/subsidized",
		s.authMiddleware.Authenticate(http.HandlerFunc(s.handleMintSubsidized)))
	mux.HandleFunc("/v1/stations/validate-name", s.handleValidateName)
	mux.HandleFunc("/v1/stations/owner", s.handleStationOwner)
	mux.HandleFunc("/v1/stations/token-uri", s.handleTokenURI)

	// Tip routes: pricing is public, sending and withdrawal are not
	mux.HandleFunc("/v1/tips/calculate", s.handleCalculateTips)
	mux.Handle("/v1/tips/send",
		s.authMiddleware.Authenticate(http.HandlerFunc(s.handleSendTips)))
	mux.Handle("/v1/tips/withdraw",
		s.authMiddleware.Authenticate(http.HandlerFunc(s.handleWithdrawTips)))

	// Pipeline status callbacks and polling
	mux.HandleFunc("/v1/status/publish", s.handlePublishStatus)
	mux.HandleFunc("/v1/status/upload", s.handleUploadStatus)

	// Chain: RequestID -> RateLimit -> Logging -> Routes
	return middleware.RequestID(s.rateLimiter.Limit(s.loggingMiddleware(mux)))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info(context.Background(), "starting server", "port", s.port)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		logger.Info(r.Context(), "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response, mapping unknown errors to a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.IsAppError(err)
	if !ok {
		logger.Error(r.Context(), "unhandled error", "error", err)
		appErr = apperrors.ErrInternalError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	json.NewEncoder(w).Encode(appErr)
}

// methodNotAllowed rejects requests with the wrong verb.
func (s *Server) methodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"code":"bad_request","message":"Method not allowed"}`))
}
