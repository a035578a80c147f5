package middleware

import (
	"net/http"

	"github.com/diirlabs/station-service/internal/logger"
	"github.com/google/uuid"
)

// RequestID tags each request with a unique id for log correlation. An id
// supplied by an upstream proxy is kept; otherwise one is generated. The id is
// stored in context and echoed back as the X-Request-ID response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := logger.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
