package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/junk-pickup/internal/queue"
)

// AMQPPublisher publishes booking events to RabbitMQ.  It dials per
// publish, which keeps it safe to share across requests without a
// connection supervisor.
type AMQPPublisher struct {
	url         string
	dialTimeout time.Duration
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url, dialTimeout: 2 * time.Second}
}

// PublishBookingCreated sends ev as a persistent JSON message to the
// booking.created queue, declaring the queue first.
func (p *AMQPPublisher) PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.dialTimeout)})
	if err != nil {
		return errors.Wrap(err, "dial broker")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "open channel")
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue.BookingCreatedQueue, // name
		true,                      // durable
		false,                     // autoDelete
		false,                     // exclusive
		false,                     // noWait
		nil,                       // args
	); err != nil {
		return errors.Wrap(err, "declare queue")
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.BookingID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.BookingCreatedQueue, false, false, pub); err != nil {
		return errors.Wrap(err, "publish")
	}
	return nil
}
