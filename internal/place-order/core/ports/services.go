package ports

import (
	"context"

	"github.com/jcmexdev/place-order/internal/place-order/core/domain/entity"
)

// InventoryService reserves and releases game stock in the inventory store.
type InventoryService interface {
	// Reserve decrements available stock for gameID by quantity. It is
	// all-or-nothing: a non-nil error means nothing was reserved.
	Reserve(ctx context.Context, gameID, quantity int) error
	// Release undoes a previous Reserve of the same quantity.
	Release(ctx context.Context, gameID, quantity int) error
}

// OrderService creates order records in the order store.
type OrderService interface {
	CreateOrder(ctx context.Context, customerEmail string, items []entity.CartItem) (*entity.OrderRecord, error)
}

// NotificationPublisher emits order events to the message broker.
type NotificationPublisher interface {
	Publish(ctx context.Context, event entity.NotificationEvent) error
}
