package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NewPublisher connects to RabbitMQ and declares the topic exchange messages are published to.
func NewPublisher(url string, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %v", err)
	}

	err = channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %v", exchange, err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

// Publisher publishes messages as JSON with routing key "event.<action>".
type Publisher struct {
	// channels are not safe for concurrent use
	lock     sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// RoutingKey returns the routing key of messages for the given action.
func RoutingKey(action string) string {
	return "event." + action
}

func (p *Publisher) Publish(ctx context.Context, message Message) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %v", err)
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, RoutingKey(message.Action), false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		CorrelationId: message.CorrelationID,
		Timestamp:     message.Time,
		Body:          body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message for event %d: %v", message.EventID, err)
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}
