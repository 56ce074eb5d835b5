package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Pointer fields tell an absent key apart from a zero value.
type CartItemDTO struct {
	GameID   *int `json:"game_id"`
	Quantity *int `json:"quantity"`
}

type PlaceOrderRequest struct {
	CustomerEmail *string       `json:"customer_email"`
	CartItems     []CartItemDTO `json:"cart_items"`
}

// Validate reports the first required field that is missing or null.
// An empty cart_items list is valid.
func (r PlaceOrderRequest) Validate() error {
	if r.CustomerEmail == nil {
		return errors.New("customer_email is required")
	}
	if r.CartItems == nil {
		return errors.New("cart_items is required")
	}
	for i, it := range r.CartItems {
		if it.GameID == nil {
			return fmt.Errorf("cart_items[%d].game_id is required", i)
		}
		if it.Quantity == nil {
			return fmt.Errorf("cart_items[%d].quantity is required", i)
		}
	}
	return nil
}

type OrderItemResponse struct {
	ItemID   int `json:"item_id"`
	GameID   int `json:"game_id"`
	Quantity int `json:"quantity"`
}

type OrderResponse struct {
	OrderID       int                 `json:"order_id"`
	CustomerEmail string              `json:"customer_email"`
	Status        string              `json:"status"`
	OrderItems    []OrderItemResponse `json:"order_items"`
	Created       string              `json:"created"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type SagaLogResponse struct {
	Status      string   `json:"status"`
	CurrentStep string   `json:"current_step"`
	Errors      []string `json:"errors"`
	TraceID     string   `json:"trace_id,omitempty"`
	UpdatedAt   string   `json:"updated_at"`
}

type SagaResponse struct {
	SagaID  string            `json:"saga_id"`
	Status  string            `json:"status"`
	Payload json.RawMessage   `json:"payload,omitempty"`
	History []SagaLogResponse `json:"history"`
}

// cachedResponse is what the idempotency cache keeps for a placed order.
type cachedResponse struct {
	SagaID string          `json:"saga_id"`
	Body   json.RawMessage `json:"body"`
}
