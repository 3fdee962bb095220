// Package amqp carries sync mutations over RabbitMQ. The API publishes them and the sync
// worker consumes them into the Postgres remote.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/MrJamesThe3rd/safespend/internal/remotesync"
)

type Client struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
}

func NewClient(url, exchange, queue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	c := &Client{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		queue:    queue,
	}

	if err := c.setup(); err != nil {
		c.Close()
		return nil, fmt.Errorf("declaring topology: %w", err)
	}

	return c, nil
}

func (c *Client) setup() error {
	if err := c.channel.ExchangeDeclare(c.exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring exchange: %w", err)
	}

	if _, err := c.channel.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring queue: %w", err)
	}

	// Direct exchange: the routing key is the queue name.
	if err := c.channel.QueueBind(c.queue, c.queue, c.exchange, false, nil); err != nil {
		return fmt.Errorf("binding queue: %w", err)
	}

	return nil
}

// Apply publishes m as a persistent JSON message.
func (c *Client) Apply(ctx context.Context, m remotesync.Mutation) error {
	body, err := Encode(m)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(ctx, c.exchange, c.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		MessageId:    string(m.Entity) + ":" + m.ID,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publishing mutation: %w", err)
	}

	slog.DebugContext(ctx, "published mutation", "entity", m.Entity, "id", m.ID, "op", m.Op)

	return nil
}

// Consume hands every delivered mutation to handle until ctx is done. Undecodable
// messages are dropped; handler failures are requeued.
func (c *Client) Consume(ctx context.Context, handle func(context.Context, remotesync.Mutation) error) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("starting consumer: %w", err)
	}

	slog.InfoContext(ctx, "consuming sync mutations", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			c.handle(ctx, d, handle)
		}
	}
}

func (c *Client) handle(ctx context.Context, d amqp091.Delivery, handle func(context.Context, remotesync.Mutation) error) {
	m, err := Decode(d.Body)
	if err != nil {
		slog.ErrorContext(ctx, "failed to decode mutation", "message_id", d.MessageId, "error", err)

		if err := d.Nack(false, false); err != nil {
			slog.ErrorContext(ctx, "failed to nack", "error", err)
		}

		return
	}

	if err := handle(ctx, m); err != nil {
		slog.ErrorContext(ctx, "failed to apply mutation", "entity", m.Entity, "id", m.ID, "error", err)

		if err := d.Nack(false, true); err != nil {
			slog.ErrorContext(ctx, "failed to nack", "error", err)
		}

		return
	}

	if err := d.Ack(false); err != nil {
		slog.ErrorContext(ctx, "failed to ack", "error", err)
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}

	if c.conn != nil {
		return c.conn.Close()
	}

	return nil
}

func Encode(m remotesync.Mutation) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding mutation: %w", err)
	}

	return body, nil
}

func Decode(body []byte) (remotesync.Mutation, error) {
	var m remotesync.Mutation
	if err := json.Unmarshal(body, &m); err != nil {
		return remotesync.Mutation{}, fmt.Errorf("decoding mutation: %w", err)
	}

	if m.Entity == "" || m.Op == "" {
		return remotesync.Mutation{}, fmt.Errorf("decoding mutation: missing op or entity")
	}

	return m, nil
}
