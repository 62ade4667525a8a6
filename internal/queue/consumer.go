package queue

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// BookingLog appends one JSON line per booking event to <dir>/booking.log.
type BookingLog struct {
	file   *os.File
	logger *log.Logger
}

// OpenBookingLog creates dir if needed and opens booking.log for append.
func OpenBookingLog(dir string) (*BookingLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "mkdir logs")
	}
	f, err := os.OpenFile(filepath.Join(dir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open booking log")
	}
	l := log.New()
	l.SetOutput(f)
	l.SetFormatter(&log.JSONFormatter{})
	return &BookingLog{file: f, logger: l}, nil
}

// Record writes ev.
func (b *BookingLog) Record(ev BookingCreatedEvent) {
	b.logger.WithFields(log.Fields{
		"booking_id":  ev.BookingID,
		"customer_id": ev.CustomerID,
		"pickup_date": ev.PickupDate,
		"items":       ev.ItemCount,
		"photos":      ev.PhotoCount,
		"total":       ev.TotalPrice,
		"created_at":  ev.CreatedAt,
	}).Info("booking created")
}

// Close closes the underlying file.
func (b *BookingLog) Close() error { return b.file.Close() }

// StartBookingConsumer consumes booking.created until ctx is cancelled.  It
// redials with exponential backoff (capped at 30s) whenever the broker is
// unreachable or the delivery channel closes.  Malformed messages are
// rejected without requeue so the loop keeps moving.
func StartBookingConsumer(ctx context.Context, url string, sink *BookingLog) error {
	logger := log.WithField("component", "booking-consumer")
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			logger.WithError(err).Warnf("dial broker failed; retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, sink)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.WithError(err).Warn("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, sink *BookingLog) error {
	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "channel open")
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.WithError(err).Warn("booking-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(BookingCreatedQueue, true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "queue declare")
	}
	msgs, err := ch.Consume(BookingCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return errors.Wrap(err, "queue consume")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(sink, d.Body); err != nil {
				log.WithError(err).Warn("booking-consumer: handle message failed")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func handleMessage(sink *BookingLog, body []byte) error {
	var ev BookingCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return errors.Wrap(err, "unmarshal")
	}
	if ev.BookingID == "" {
		return errors.New("event without booking_id")
	}
	sink.Record(ev)
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
