package notification

import (
	"encoding/json"

	"github.com/jcmexdev/place-order/internal/place-order/core/domain/entity"
)

type cartItem struct {
	GameID   int `json:"game_id"`
	Quantity int `json:"quantity"`
}

// orderCreated is the wire form consumed by the notification service.
type orderCreated struct {
	Email string     `json:"email"`
	Data  []cartItem `json:"data"`
}

func encodeEvent(event entity.NotificationEvent) ([]byte, error) {
	msg := orderCreated{
		Email: event.Email,
		Data:  make([]cartItem, len(event.Data)),
	}
	for i, it := range event.Data {
		msg.Data[i] = cartItem{GameID: it.GameID, Quantity: it.Quantity}
	}
	return json.Marshal(msg)
}
