package coordinator

import "errors"

var (
	// ErrReservationFailed means a stock reservation was refused; earlier
	// reservations have been released.
	ErrReservationFailed = errors.New("unable to reserve required game stock")

	// ErrOrderCreationFailed means the order store did not create the order;
	// every reservation has been released.
	ErrOrderCreationFailed = errors.New("unable to create order record")

	// ErrNotificationFailed means the order exists but the "order created"
	// event could not be published. Nothing is compensated.
	ErrNotificationFailed = errors.New("unable to publish order notification")

	// ErrSagaFinished is returned when a finished saga is started again.
	ErrSagaFinished = errors.New("saga already finished")
)
