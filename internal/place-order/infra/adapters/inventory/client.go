package inventory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jcmexdev/place-order/internal/place-order/core/ports"
	"github.com/jcmexdev/place-order/internal/place-order/infra/adapters/httpclient"
)

// Ensure Client implements the port at compile time.
var _ ports.InventoryService = (*Client)(nil)

// Client talks to the games service, which owns stock levels.
type Client struct {
	http *httpclient.Client
}

func NewClient(base *httpclient.Client) *Client {
	return &Client{http: base}
}

type reserveRequest struct {
	Reserve int `json:"reserve"`
}

// Reserve asks the games service to take quantity units of gameID out of
// available stock. Only 200 counts as success.
func (c *Client) Reserve(ctx context.Context, gameID, quantity int) error {
	return c.adjust(ctx, gameID, quantity)
}

// Release returns quantity units of gameID by reserving the negated amount.
func (c *Client) Release(ctx context.Context, gameID, quantity int) error {
	err := c.adjust(ctx, gameID, -quantity)
	if err != nil {
		slog.ErrorContext(ctx, "stock release failed, needs reconciliation",
			"game_id", gameID, "quantity", quantity, "error", err)
	}
	return err
}

func (c *Client) adjust(ctx context.Context, gameID, reserve int) error {
	res, err := c.http.DoJSON(ctx, http.MethodPatch, "/games/"+strconv.Itoa(gameID), reserveRequest{Reserve: reserve})
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("games service: reserve %d of game %d: unexpected status %d", reserve, gameID, res.StatusCode)
	}
	return nil
}
