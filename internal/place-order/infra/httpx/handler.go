package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/place-order/internal/coordinator"
	"github.com/jcmexdev/place-order/internal/coordinator/sagalog"
	"github.com/jcmexdev/place-order/internal/pkg/cache"
	"github.com/jcmexdev/place-order/internal/pkg/requestmeta"
	"github.com/jcmexdev/place-order/internal/place-order/core/domain/entity"
)

const (
	msgHealthy          = "Service is healthy."
	msgOrderPlaced      = "Order placed."
	msgUnableToPlace    = "Unable to place order."
	errReserveStock     = "Unable to reserve required game stock."
	errCreateOrder      = "Unable to create order record."
	idempotentOperation = "response"
)

// SagaRunner runs one place-order saga.
type SagaRunner interface {
	Run(ctx context.Context, req entity.PlaceOrderRequest) (coordinator.Result, error)
}

// Handler serves the place-order API.
type Handler struct {
	saga     SagaRunner
	sagaLog  sagalog.Reader // nil when the saga log is disabled
	cache    cache.Cache    // nil when idempotent replay is disabled
	cacheTTL time.Duration
}

// NewHandler wires the handler. sagaLog and responses may be nil.
func NewHandler(saga SagaRunner, sagaLog sagalog.Reader, responses cache.Cache, ttl time.Duration) *Handler {
	return &Handler{
		saga:     saga,
		sagaLog:  sagaLog,
		cache:    responses,
		cacheTTL: ttl,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: msgHealthy})
}

// PlaceOrder runs the saga synchronously and answers with its outcome.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.WarnContext(r.Context(), "malformed place-order request", "error", err)
		writeInternalError(w)
		return
	}
	if err := req.Validate(); err != nil {
		slog.WarnContext(r.Context(), "incomplete place-order request", "error", err)
		writeInternalError(w)
		return
	}

	idempKey := requestmeta.IdempotencyKey(r.Context())
	if h.replay(w, r, idempKey) {
		return
	}

	// The saga must run to completion even if the client goes away.
	sagaCtx := context.WithoutCancel(r.Context())
	res, err := h.saga.Run(sagaCtx, mapRequestToEntity(req))
	if res.SagaID != "" {
		w.Header().Set(requestmeta.HeaderXSagaId, res.SagaID)
	}

	switch {
	case err == nil:
	case errors.Is(err, coordinator.ErrReservationFailed):
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: msgUnableToPlace, Error: errReserveStock})
		return
	case errors.Is(err, coordinator.ErrOrderCreationFailed):
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: msgUnableToPlace, Error: errCreateOrder})
		return
	default:
		slog.ErrorContext(r.Context(), "place-order saga aborted", "saga_id", res.SagaID, "error", err)
		writeInternalError(w)
		return
	}

	body, err := json.Marshal(MessageResponse{Message: msgOrderPlaced, Data: mapOrderToResponse(res.Order)})
	if err != nil {
		writeInternalError(w)
		return
	}
	h.remember(r.Context(), idempKey, res.SagaID, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// GetSaga returns the saga log history for one saga.
func (h *Handler) GetSaga(w http.ResponseWriter, r *http.Request) {
	if h.sagaLog == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Message: "Saga log is disabled."})
		return
	}

	sagaID := chi.URLParam(r, "id")
	latest, err := h.sagaLog.GetLatest(r.Context(), sagaID)
	if errors.Is(err, sagalog.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Message: "Saga not found."})
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to read saga log", "saga_id", sagaID, "error", err)
		writeInternalError(w)
		return
	}

	history, err := h.sagaLog.History(r.Context(), sagaID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to read saga history", "saga_id", sagaID, "error", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Data: mapHistoryToResponse(latest, history)})
}

// replay writes the stored response for key, if any.
func (h *Handler) replay(w http.ResponseWriter, r *http.Request, key string) bool {
	if h.cache == nil || key == "" {
		return false
	}

	raw, err := h.cache.Get(r.Context(), h.cache.GenerateKey(idempotentOperation, key))
	if err != nil {
		slog.WarnContext(r.Context(), "idempotency lookup failed", "error", err)
		return false
	}
	if raw == "" {
		return false
	}

	var cached cachedResponse
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		slog.WarnContext(r.Context(), "discarding unreadable cached response", "error", err)
		return false
	}

	slog.InfoContext(r.Context(), "replaying placed order", "saga_id", cached.SagaID)
	w.Header().Set(requestmeta.HeaderXSagaId, cached.SagaID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(cached.Body)
	return true
}

func (h *Handler) remember(ctx context.Context, key, sagaID string, body []byte) {
	if h.cache == nil || key == "" {
		return
	}

	raw, err := json.Marshal(cachedResponse{SagaID: sagaID, Body: body})
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, h.cache.GenerateKey(idempotentOperation, key), string(raw), h.cacheTTL); err != nil {
		slog.WarnContext(ctx, "failed to cache placed order", "saga_id", sagaID, "error", err)
	}
}

func mapRequestToEntity(req PlaceOrderRequest) entity.PlaceOrderRequest {
	items := make([]entity.CartItem, len(req.CartItems))
	for i, it := range req.CartItems {
		items[i] = entity.CartItem{GameID: *it.GameID, Quantity: *it.Quantity}
	}
	return entity.PlaceOrderRequest{
		CustomerEmail: *req.CustomerEmail,
		CartItems:     items,
	}
}

func mapOrderToResponse(order *entity.OrderRecord) OrderResponse {
	items := make([]OrderItemResponse, len(order.OrderItems))
	for i, it := range order.OrderItems {
		items[i] = OrderItemResponse{
			ItemID:   it.ItemID,
			GameID:   it.GameID,
			Quantity: it.Quantity,
		}
	}
	return OrderResponse{
		OrderID:       order.OrderID,
		CustomerEmail: order.CustomerEmail,
		Status:        order.Status,
		OrderItems:    items,
		Created:       order.Created,
	}
}

func mapHistoryToResponse(latest *sagalog.SagaLog, history []sagalog.SagaLog) SagaResponse {
	out := SagaResponse{
		SagaID:  latest.SagaID,
		Status:  string(latest.Status),
		History: make([]SagaLogResponse, len(history)),
	}
	for i, entry := range history {
		if entry.Payload != "" && out.Payload == nil {
			out.Payload = json.RawMessage(entry.Payload)
		}
		errs := entry.Errors()
		if errs == nil {
			errs = []string{}
		}
		out.History[i] = SagaLogResponse{
			Status:      string(entry.Status),
			CurrentStep: entry.CurrentStep,
			Errors:      errs,
			TraceID:     entry.TraceID,
			UpdatedAt:   entry.UpdatedAt.UTC().Format(time.RFC3339Nano),
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeInternalError answers a bare 500 with no structured message.
func writeInternalError(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
