package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/place-order/internal/coordinator/sagalog"
	"github.com/jcmexdev/place-order/internal/place-order/core/domain/entity"
	"github.com/jcmexdev/place-order/internal/place-order/core/ports"
)

const notifyStepName = "Notify_Order_Step"

// PlaceOrderSaga reserves stock for every cart line, creates the order and
// announces it. It holds no per-request state and is safe for concurrent use.
type PlaceOrderSaga struct {
	inventory ports.InventoryService
	orders    ports.OrderService
	publisher ports.NotificationPublisher
	sagaLog   sagalog.Repository // nil-safe
	newID     func() string
}

func NewPlaceOrderSaga(
	inventory ports.InventoryService,
	orders ports.OrderService,
	publisher ports.NotificationPublisher,
	sagaLog sagalog.Repository,
) *PlaceOrderSaga {
	return &PlaceOrderSaga{
		inventory: inventory,
		orders:    orders,
		publisher: publisher,
		sagaLog:   sagaLog,
		newID:     uuid.NewString,
	}
}

// Result is the outcome of one saga run. SagaID is always set; Order only on
// success.
type Result struct {
	SagaID string
	Order  *entity.OrderRecord
}

// Run executes the saga for req. Errors wrap ErrReservationFailed,
// ErrOrderCreationFailed or ErrNotificationFailed.
//
// Run has no abort path: callers pass a context that is not cancelled when
// the inbound request goes away.
func (s *PlaceOrderSaga) Run(ctx context.Context, req entity.PlaceOrderRequest) (Result, error) {
	sagaID := s.newID()
	res := Result{SagaID: sagaID}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "PlaceOrderSaga",
		trace.WithAttributes(
			attribute.String("saga.id", sagaID),
			attribute.Int("saga.cart_items", len(req.CartItems)),
		))
	defer span.End()

	steps := make([]Step, 0, len(req.CartItems)+1)
	for i, item := range req.CartItems {
		steps = append(steps, NewReserveGameStep(s.inventory, i, item))
	}
	createOrder := NewCreateOrderStep(s.orders, req)
	steps = append(steps, createOrder)

	saga := NewOrchestrator(sagaID, steps, s.sagaLog)
	saga.Transition(ctx, sagalog.StatusReserving, "", requestPayload(req), nil)

	slog.InfoContext(ctx, "placing order", "saga_id", sagaID, "cart_items", len(req.CartItems))

	if err := saga.Start(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}

	order := createOrder.Order()

	saga.Transition(ctx, sagalog.StatusNotifying, notifyStepName, "", nil)
	if err := s.publisher.Publish(ctx, entity.NewNotificationEvent(req)); err != nil {
		// The order is already committed and reservations are consumed by it.
		slog.ErrorContext(ctx, "CRITICAL: order created but notification failed",
			"saga_id", sagaID, "order_id", order.OrderID, "error", err)
		saga.Transition(ctx, sagalog.StatusFailed, notifyStepName, "", []string{err.Error()})
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, fmt.Errorf("%w: order %d: %w", ErrNotificationFailed, order.OrderID, err)
	}

	saga.Transition(ctx, sagalog.StatusDone, notifyStepName, "", nil)
	slog.InfoContext(ctx, "order placed", "saga_id", sagaID, "order_id", order.OrderID)

	res.Order = order
	return res, nil
}

type payloadItem struct {
	GameID   int `json:"game_id"`
	Quantity int `json:"quantity"`
}

type payload struct {
	CustomerEmail string        `json:"customer_email"`
	CartItems     []payloadItem `json:"cart_items"`
}

func requestPayload(req entity.PlaceOrderRequest) string {
	p := payload{
		CustomerEmail: req.CustomerEmail,
		CartItems:     make([]payloadItem, len(req.CartItems)),
	}
	for i, it := range req.CartItems {
		p.CartItems[i] = payloadItem{GameID: it.GameID, Quantity: it.Quantity}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}
