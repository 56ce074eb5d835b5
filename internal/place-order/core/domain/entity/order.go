package entity

// CartItem is a single line of a customer's cart.
type CartItem struct {
	GameID   int
	Quantity int
}

// PlaceOrderRequest is the input of the place-order saga. The order of
// CartItems drives both reservation and compensation order.
type PlaceOrderRequest struct {
	CustomerEmail string
	CartItems     []CartItem
}

type OrderItem struct {
	ItemID   int
	GameID   int
	Quantity int
}

// OrderRecord is the order as persisted by the order store.
type OrderRecord struct {
	OrderID       int
	CustomerEmail string
	Status        string
	OrderItems    []OrderItem
	Created       string
}

// NotificationEvent announces a newly created order to the broker.
type NotificationEvent struct {
	Email string
	Data  []CartItem
}

// NewNotificationEvent builds the event from the request that produced the order.
func NewNotificationEvent(req PlaceOrderRequest) NotificationEvent {
	data := make([]CartItem, len(req.CartItems))
	copy(data, req.CartItems)
	return NotificationEvent{
		Email: req.CustomerEmail,
		Data:  data,
	}
}
