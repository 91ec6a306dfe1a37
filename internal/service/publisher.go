package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/dealership-reviews/internal/queue"
)

const defaultDialTimeout = 3 * time.Second

// ReviewPublisher publishes review events to RabbitMQ, opening a short
// lived connection per event.
type ReviewPublisher struct {
	URL string
}

func NewReviewPublisher(url string) *ReviewPublisher {
	return &ReviewPublisher{URL: url}
}

// PublishReviewPosted sends ev to the durable review.posted queue as a
// persistent message. The connection attempt, including the AMQP
// handshake, is bounded by ctx's deadline. Errors are returned to the
// caller, which decides how to log them.
func (p *ReviewPublisher) PublishReviewPosted(ctx context.Context, ev queue.ReviewPostedEvent) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout(ctx)),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.ReviewPostedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.ReviewPostedQueue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// dialTimeout is the time left until ctx's deadline, or defaultDialTimeout
// when ctx has none.
func dialTimeout(ctx context.Context) time.Duration {
	dl, ok := ctx.Deadline()
	if !ok {
		return defaultDialTimeout
	}
	if left := time.Until(dl); left > 0 {
		return left
	}
	return time.Millisecond
}
