package config

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DepositApprovedMessage is the payload carried on QueueDepositApproved.
// UserID stays loosely typed because upstream approval systems send numeric
// or string ids; the consumer normalizes it.
type DepositApprovedMessage struct {
	UserID    interface{} `json:"user_id"`
	Amount    float64     `json:"amount"`
	EventRef  string      `json:"event_ref"`
	EventTime *time.Time  `json:"event_time,omitempty"`
}

// Publisher pushes settlement events onto durable queues. Messages are
// persistent so an approved deposit survives a broker restart.
type Publisher struct {
	channel *amqp.Channel
}

func NewPublisher() (*Publisher, error) {
	if RabbitMQ == nil {
		return nil, fmt.Errorf("rabbitmq connection not initialized")
	}

	ch, err := RabbitMQ.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return &Publisher{channel: ch}, nil
}

// PublishDepositApproved enqueues one deposit approval event for the
// settlement worker.
func (p *Publisher) PublishDepositApproved(msg DepositApprovedMessage) error {
	return p.publish(QueueDepositApproved, msg)
}

func (p *Publisher) publish(queueName string, message interface{}) error {
	// Declaring the queue here keeps publish safe before any consumer has
	// started; the declaration matches the consumer's.
	if _, err := p.channel.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queueName, err)
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = p.channel.Publish("", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", queueName, err)
	}

	log.Printf("Published message to queue %s: %s", queueName, string(body))
	return nil
}

// Close releases the publisher's channel.
func (p *Publisher) Close() error {
	if p.channel != nil {
		return p.channel.Close()
	}
	return nil
}
