package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jcmexdev/place-order/internal/pkg/requestmeta"
	"github.com/jcmexdev/place-order/internal/place-order/infra/httpx/middlewares"
)

func NewRouter(handler *Handler, allowOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMeta)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestmeta.HeaderXRequestId, requestmeta.HeaderXIdempotencyKey},
		ExposedHeaders: []string{requestmeta.HeaderXRequestId, requestmeta.HeaderXSagaId},
		MaxAge:         300,
	}))

	r.Get("/health", handler.Health)
	r.Post("/place-order", handler.PlaceOrder)
	r.Get("/sagas/{id}", handler.GetSaga)
	return r
}
