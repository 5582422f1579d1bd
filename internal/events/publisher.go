package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Koalla18/TakeSmart/internal/order"
)

const (
	OrderCreatedQueue   = "order.created"
	OrderCompletedQueue = "order.completed"
)

func MustDialRabbit(url string) *amqp.Connection {
	conn, err := amqp.Dial(url)
	if err != nil {
		log.Fatalf("connect to RabbitMQ: %v", err)
	}
	return conn
}

type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Declare queues so publish never fails due to missing infra
	for _, q := range []string{OrderCreatedQueue, OrderCompletedQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("declare %s: %w", q, err)
		}
	}

	return &Publisher{ch: ch}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, o *order.Order) error {
	ev := BuildOrderCreated(o)

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderCreated: %w", err)
	}
	return p.publishJSON(ctx, OrderCreatedQueue, body)
}

func (p *Publisher) PublishOrderCompleted(ctx context.Context, orderID string) error {
	ev := OrderCompleted{
		EventType: "OrderCompleted",
		OrderID:   orderID,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderCompleted: %w", err)
	}
	return p.publishJSON(ctx, OrderCompletedQueue, body)
}

// BuildOrderCreated maps an order onto its wire event.
func BuildOrderCreated(o *order.Order) OrderCreated {
	ev := OrderCreated{
		EventType:      "OrderCreated",
		OrderID:        o.ID,
		TotalAmount:    o.TotalAmount,
		PaymentMethod:  string(o.PaymentMethod),
		DeliveryMethod: string(o.DeliveryMethod),
		Timestamp:      time.Now().UTC(),
	}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, OrderItemEvent{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.PriceSnapshot,
		})
	}
	return ev
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		"",         // default exchange
		routingKey, // queue name as routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
