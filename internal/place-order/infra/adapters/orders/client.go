package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jcmexdev/place-order/internal/place-order/core/domain/entity"
	"github.com/jcmexdev/place-order/internal/place-order/core/ports"
	"github.com/jcmexdev/place-order/internal/place-order/infra/adapters/httpclient"
)

var _ ports.OrderService = (*Client)(nil)

// Client is the adapter for the orders service REST API.
type Client struct {
	http *httpclient.Client
}

func NewClient(base *httpclient.Client) *Client {
	return &Client{http: base}
}

// CreateOrder posts the whole cart in one call. Anything but a 201 carrying
// a "data" object is a failure.
func (c *Client) CreateOrder(ctx context.Context, customerEmail string, items []entity.CartItem) (*entity.OrderRecord, error) {
	req := createOrderRequest{
		CustomerEmail: customerEmail,
		CartItems:     make([]cartItemDTO, len(items)),
	}
	for i, it := range items {
		req.CartItems[i] = cartItemDTO{GameID: it.GameID, Quantity: it.Quantity}
	}

	res, err := c.http.DoJSON(ctx, http.MethodPost, "/orders", req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("orders service: create order: unexpected status %d", res.StatusCode)
	}

	var body createOrderResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("orders service: decode created order: %w", err)
	}
	if body.Data == nil {
		return nil, fmt.Errorf("orders service: create order: empty data in response")
	}

	return mapOrderToEntity(body.Data), nil
}

func mapOrderToEntity(o *orderDTO) *entity.OrderRecord {
	items := make([]entity.OrderItem, len(o.OrderItems))
	for i, it := range o.OrderItems {
		items[i] = entity.OrderItem{
			ItemID:   it.ItemID,
			GameID:   it.GameID,
			Quantity: it.Quantity,
		}
	}
	return &entity.OrderRecord{
		OrderID:       o.OrderID,
		CustomerEmail: o.CustomerEmail,
		Status:        o.Status,
		OrderItems:    items,
		Created:       o.Created,
	}
}
