package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const EVENTS_EXCHANGE = "bloghub.events"

// Routing keys of the events published on EVENTS_EXCHANGE.
const (
	POST_CREATED_KEY    = "post.created"
	COMMENT_CREATED_KEY = "comment.created"
	REPLY_CREATED_KEY   = "reply.created"
	USER_FOLLOWED_KEY   = "user.followed"
)

type MQConn struct {
	conn *amqp.Connection
	mu   sync.Mutex
	ch   *amqp.Channel
}

func New(url string) (*MQConn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		EVENTS_EXCHANGE, // name
		"topic",         // type
		true,            // durable
		false,           // auto-delete
		false,           // internal
		false,           // no-wait
		nil,             // arguments
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &MQConn{
		conn: conn,
		ch:   ch,
	}, nil
}

// Publish encodes v as JSON and sends it to the events exchange.
func (m *MQConn) Publish(ctx context.Context, routingKey string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ch.PublishWithContext(
		ctx,
		EVENTS_EXCHANGE,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Consume declares queue, binds it to every routing key (topic patterns are
// allowed) and starts a manual-ack consumer on a dedicated channel.
func (m *MQConn) Consume(queue string, routingKeys ...string) (<-chan amqp.Delivery, error) {
	ch, err := m.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, EVENTS_EXCHANGE, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("failed to bind queue: %w", err)
		}
	}

	return ch.Consume(
		q.Name, // queue
		"",     // consumer
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
}

func (m *MQConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ch != nil {
		_ = m.ch.Close()
	}
	return m.conn.Close()
}
