package orders

type cartItemDTO struct {
	GameID   int `json:"game_id"`
	Quantity int `json:"quantity"`
}

type createOrderRequest struct {
	CustomerEmail string        `json:"customer_email"`
	CartItems     []cartItemDTO `json:"cart_items"`
}

type orderItemDTO struct {
	ItemID   int `json:"item_id"`
	GameID   int `json:"game_id"`
	Quantity int `json:"quantity"`
}

type orderDTO struct {
	OrderID       int            `json:"order_id"`
	CustomerEmail string         `json:"customer_email"`
	Status        string         `json:"status"`
	OrderItems    []orderItemDTO `json:"order_items"`
	Created       string         `json:"created"`
}

type createOrderResponse struct {
	Data *orderDTO `json:"data"`
}
