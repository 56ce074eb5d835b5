package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jcmexdev/place-order/internal/coordinator/sagalog"
	"github.com/jcmexdev/place-order/internal/place-order/core/domain/entity"
)

var errOutOfStock = errors.New("inventory store answered 400")

// stockCall is one request seen by fakeInventory, with the signed quantity the
// inventory store would receive.
type stockCall struct {
	GameID  int
	Reserve int
}

type fakeInventory struct {
	mu         sync.Mutex
	stock      map[int]int
	releaseErr error
	reserves   []stockCall
	releases   []stockCall
}

func newFakeInventory(stock map[int]int) *fakeInventory {
	return &fakeInventory{stock: stock}
}

func (f *fakeInventory) Reserve(ctx context.Context, gameID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reserves = append(f.reserves, stockCall{GameID: gameID, Reserve: quantity})
	if f.stock[gameID] < quantity {
		return errOutOfStock
	}
	f.stock[gameID] -= quantity
	return nil
}

func (f *fakeInventory) Release(ctx context.Context, gameID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.releases = append(f.releases, stockCall{GameID: gameID, Reserve: -quantity})
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.stock[gameID] += quantity
	return nil
}

type fakeOrders struct {
	err   error
	calls int
	email string
	items []entity.CartItem
}

func (f *fakeOrders) CreateOrder(ctx context.Context, email string, items []entity.CartItem) (*entity.OrderRecord, error) {
	f.calls++
	f.email = email
	f.items = items
	if f.err != nil {
		return nil, f.err
	}

	record := &entity.OrderRecord{
		OrderID:       7,
		CustomerEmail: email,
		Status:        "NEW",
		Created:       "Tue, 10 Aug 2021 00:00:00 GMT",
	}
	for i, it := range items {
		record.OrderItems = append(record.OrderItems, entity.OrderItem{
			ItemID:   12 + i,
			GameID:   it.GameID,
			Quantity: it.Quantity,
		})
	}
	return record, nil
}

type fakePublisher struct {
	err    error
	events []entity.NotificationEvent
}

func (f *fakePublisher) Publish(ctx context.Context, event entity.NotificationEvent) error {
	f.events = append(f.events, event)
	return f.err
}

type memorySagaLog struct {
	mu      sync.Mutex
	entries []sagalog.SagaLog
}

func (m *memorySagaLog) Save(ctx context.Context, entry *sagalog.SagaLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memorySagaLog) statuses() []sagalog.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sagalog.Status, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Status
	}
	return out
}

func (m *memorySagaLog) last() sagalog.SagaLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[len(m.entries)-1]
}

type failingSagaLog struct{}

func (failingSagaLog) Save(ctx context.Context, entry *sagalog.SagaLog) error {
	return fmt.Errorf("disk full")
}
