package coordinator

import (
	"context"
	"fmt"

	"github.com/jcmexdev/place-order/internal/coordinator/sagalog"
	"github.com/jcmexdev/place-order/internal/place-order/core/domain/entity"
	"github.com/jcmexdev/place-order/internal/place-order/core/ports"
)

// --- ReserveGameStep ---

// ReserveGameStep reserves stock for one cart line. Once executed it is an
// entry of the saga's reservation ledger.
type ReserveGameStep struct {
	client ports.InventoryService
	line   int
	item   entity.CartItem
}

func NewReserveGameStep(client ports.InventoryService, line int, item entity.CartItem) *ReserveGameStep {
	return &ReserveGameStep{
		client: client,
		line:   line,
		item:   item,
	}
}

func (s *ReserveGameStep) Name() string { return fmt.Sprintf("Reserve_Game_Step[%d]", s.line) }

func (s *ReserveGameStep) Phase() sagalog.Status { return sagalog.StatusReserving }

func (s *ReserveGameStep) Execute(ctx context.Context) error {
	if err := s.client.Reserve(ctx, s.item.GameID, s.item.Quantity); err != nil {
		return fmt.Errorf("%w: game %d quantity %d: %w", ErrReservationFailed, s.item.GameID, s.item.Quantity, err)
	}
	return nil
}

func (s *ReserveGameStep) Compensate(ctx context.Context) error {
	return s.client.Release(ctx, s.item.GameID, s.item.Quantity)
}

// --- CreateOrderStep ---

type CreateOrderStep struct {
	client  ports.OrderService
	request entity.PlaceOrderRequest
	order   *entity.OrderRecord
}

// NewCreateOrderStep is the constructor for CreateOrderStep
func NewCreateOrderStep(client ports.OrderService, request entity.PlaceOrderRequest) *CreateOrderStep {
	return &CreateOrderStep{
		client:  client,
		request: request,
	}
}

func (s *CreateOrderStep) Name() string { return "Create_Order_Step" }

func (s *CreateOrderStep) Phase() sagalog.Status { return sagalog.StatusCreatingOrder }

func (s *CreateOrderStep) Execute(ctx context.Context) error {
	order, err := s.client.CreateOrder(ctx, s.request.CustomerEmail, s.request.CartItems)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOrderCreationFailed, err)
	}
	if order == nil {
		return fmt.Errorf("%w: empty order in response", ErrOrderCreationFailed)
	}
	s.order = order
	return nil
}

// Compensate is a no-op: order creation is the last compensable step, so it
// never runs before a later step fails.
func (s *CreateOrderStep) Compensate(ctx context.Context) error {
	return nil
}

// Order is the record created by Execute, nil until it succeeds.
func (s *CreateOrderStep) Order() *entity.OrderRecord { return s.order }
