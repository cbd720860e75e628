package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/velora/auth-service/application/port/inbound"
	"github.com/velora/auth-service/infrastructure/service/logger"
)

// Consumer drains fired purge jobs and hands them to the purge interactor.
// Retrying is the broker's job: a store failure nacks the delivery back onto
// the queue, a malformed body is dropped.
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	purger  inbound.PurgeUseCase
	logger  logger.Logger
}

func NewConsumer(amqpURL string, purger inbound.PurgeUseCase, log logger.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	if _, err := channel.QueueDeclare(DeleteUserQueue, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := channel.QueueBind(DeleteUserQueue, DeleteUserRoute, DelayedDeleteExchange, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}
	if err := channel.Qos(1, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	return &Consumer{
		conn:    conn,
		channel: channel,
		purger:  purger,
		logger:  log,
	}, nil
}

// Run blocks consuming deliveries until the context is cancelled or the
// channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.channel.Consume(DeleteUserQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info(ctx, "purge consumer started", map[string]interface{}{
		"queue": DeleteUserQueue,
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handle(ctx, delivery)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, delivery amqp.Delivery) {
	var msg deleteUserMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil || msg.SubjectID == "" {
		c.logger.Warn(ctx, "dropping malformed purge job", map[string]interface{}{
			"body": string(delivery.Body),
		})
		_ = delivery.Nack(false, false)
		return
	}

	if err := c.purger.Execute(ctx, msg.SubjectID); err != nil {
		c.logger.Error(ctx, "purge failed, requeueing", err, map[string]interface{}{
			"subject_id": msg.SubjectID,
		})
		_ = delivery.Nack(false, true)
		return
	}

	_ = delivery.Ack(false)
}

func (c *Consumer) Close() error {
	if err := c.channel.Close(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}
