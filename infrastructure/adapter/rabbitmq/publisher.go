package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// Delayed purge jobs go through a delayed-message exchange; the broker
	// holds each message for its x-delay before routing it.
	DelayedDeleteExchange = "delayed_delete_exchange"
	DeleteUserRoute       = "delete_user_route"
	DeleteUserQueue       = "delete_pending_user"

	MailExchange      = "send_exchange"
	ConfirmationRoute = "register_confirmation_route"
)

type deleteUserMessage struct {
	SubjectID string `json:"subject_id"`
}

type confirmationMessage struct {
	SubjectID string `json:"subject_id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
}

// Publisher owns the broker connection for the emitting side: delayed purge
// jobs and confirmation-mail events. Publishing is fire-and-forget; delivery
// guarantees come from persistent messages on durable exchanges.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewPublisher(amqpURL string) (*Publisher, error) {
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

	return &Publisher{conn: conn, channel: channel}, nil
}

func declareTopology(channel *amqp.Channel) error {
	err := channel.ExchangeDeclare(
		DelayedDeleteExchange,
		"x-delayed-message",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		amqp.Table{"x-delayed-type": "direct"},
	)
	if err != nil {
		return fmt.Errorf("failed to declare delayed exchange: %w", err)
	}

	err = channel.ExchangeDeclare(MailExchange, "direct", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare mail exchange: %w", err)
	}
	return nil
}

// PublishDeleteTask emits the delayed purge job for a staged signup.
func (p *Publisher) PublishDeleteTask(ctx context.Context, subjectID string, delayMillis int64) error {
	body, err := json.Marshal(deleteUserMessage{SubjectID: subjectID})
	if err != nil {
		return fmt.Errorf("failed to encode delete task: %w", err)
	}
	return p.publish(ctx, DelayedDeleteExchange, DeleteUserRoute, body, amqp.Table{"x-delay": delayMillis})
}

// NotifyConfirmation emits the confirmation-mail event consumed by the mailer.
func (p *Publisher) NotifyConfirmation(ctx context.Context, subjectID, email, username string) error {
	body, err := json.Marshal(confirmationMessage{
		SubjectID: subjectID,
		Email:     email,
		Username:  username,
	})
	if err != nil {
		return fmt.Errorf("failed to encode confirmation event: %w", err)
	}
	return p.publish(ctx, MailExchange, ConfirmationRoute, body, nil)
}

func (p *Publisher) publish(ctx context.Context, exchange, routingKey string, body []byte, headers amqp.Table) error {
	err := p.channel.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Headers:      headers,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", exchange, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
