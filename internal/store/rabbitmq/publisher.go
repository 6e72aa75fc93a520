package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Event types published to the feed.
const (
	EventUserSignup  = "user.signup"
	EventUserLogin   = "user.login"
	EventChatMessage = "chat.message"
	EventChatClear   = "chat.clear"
)

type Event struct {
	Type   string `json:"type"`
	UserID uint64 `json:"user_id"`
	Ts     int64  `json:"ts"`
}

// Publisher emits account and chat events to a durable queue. A nil
// Publisher is valid and publishes nothing, so the broker stays optional.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Publish is best-effort: the feed is observability plumbing and must never
// fail a user request. Errors are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, eventType string, userID uint64) {
	if p == nil {
		return
	}

	body, err := json.Marshal(Event{Type: eventType, UserID: userID, Ts: time.Now().Unix()})
	if err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("event marshal failed")
		return
	}

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(cctx,
		"",      // default exchange
		p.queue, // routing key = queue
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		log.Warn().Err(err).Str("event", eventType).Uint64("user_id", userID).Msg("event publish failed")
	}
}
