package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/place-order/internal/pkg/requestmeta"
)

// AttachRequestMeta copies the chi request ID and the client's idempotency
// key into the request context and echoes the request ID back.
// It must run after middleware.RequestID.
func AttachRequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		idempotencyKey := r.Header.Get(requestmeta.HeaderXIdempotencyKey)

		ctx := requestmeta.WithRequestID(r.Context(), requestID)
		ctx = requestmeta.WithIdempotencyKey(ctx, idempotencyKey)

		if requestID != "" {
			w.Header().Set(requestmeta.HeaderXRequestId, requestID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
