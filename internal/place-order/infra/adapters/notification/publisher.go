package notification

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"

	"github.com/jcmexdev/place-order/internal/place-order/core/domain/entity"
	"github.com/jcmexdev/place-order/internal/place-order/core/ports"
)

// RoutingKeyOrderNew is the routing key of "order created" events.
const RoutingKeyOrderNew = "order.new"

var _ ports.NotificationPublisher = (*Publisher)(nil)

// Config is the broker setup, read once at process start.
type Config struct {
	URL          string
	Exchange     string
	ExchangeType string
}

// Publisher opens a fresh connection for every publish and closes it right
// after; nothing is pooled between requests.
type Publisher struct {
	cfg  Config
	dial func(url string) (*amqp.Connection, error)
}

func NewPublisher(cfg Config) *Publisher {
	return &Publisher{cfg: cfg, dial: amqp.Dial}
}

// DeclareExchange declares the durable exchange events are published to.
// A cancelled ctx aborts before the broker is dialled.
func (p *Publisher) DeclareExchange(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("declare exchange %s: %w", p.cfg.Exchange, err)
	}
	return p.withChannel(func(ch *amqp.Channel) error {
		if err := ch.ExchangeDeclare(
			p.cfg.Exchange,
			p.cfg.ExchangeType,
			true,  // durable
			false, // auto-deleted
			false, // internal
			false, // no-wait
			nil,
		); err != nil {
			return fmt.Errorf("declare exchange %s: %w", p.cfg.Exchange, err)
		}
		return nil
	})
}

// Publish sends event as a persistent JSON message with routing key
// order.new. It is never retried here.
func (p *Publisher) Publish(ctx context.Context, event entity.NotificationEvent) error {
	body, err := encodeEvent(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	headers := amqp.Table{}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier(headers))

	return p.withChannel(func(ch *amqp.Channel) error {
		if err := ch.PublishWithContext(
			ctx,
			p.cfg.Exchange,
			RoutingKeyOrderNew,
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				Headers:      headers,
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Timestamp:    time.Now().UTC(),
				Body:         body,
			},
		); err != nil {
			return fmt.Errorf("publish %s to %s: %w", RoutingKeyOrderNew, p.cfg.Exchange, err)
		}
		return nil
	})
}

func (p *Publisher) withChannel(fn func(ch *amqp.Channel) error) error {
	conn, err := p.dial(p.cfg.URL)
	if err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	return fn(ch)
}
