package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "user.events"

	confirmWait = 2 * time.Second
)

// session is one connection with its confirm-mode channel.
type session struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	confirms <-chan amqp.Confirmation
}

func dial(url, exchange string) (*session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	s := &session{conn: conn}

	if s.ch, err = conn.Channel(); err != nil {
		s.close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err = s.ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		s.close()
		return nil, fmt.Errorf("rabbitmq declare %s: %w", exchange, err)
	}
	if err = s.ch.Confirm(false); err != nil {
		s.close()
		return nil, fmt.Errorf("rabbitmq confirm mode: %w", err)
	}
	s.confirms = s.ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	return s, nil
}

func (s *session) alive() bool {
	return s != nil && !s.conn.IsClosed() && !s.ch.IsClosed()
}

func (s *session) close() {
	if s.ch != nil {
		_ = s.ch.Close()
	}
	_ = s.conn.Close()
}

// Publisher writes persistent JSON events to a topic exchange and waits for
// the broker's confirm. Publishes are serialized; a dead session is redialed
// on the next call.
type Publisher struct {
	url      string
	exchange string

	mu   sync.Mutex
	sess *session
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	sess, err := dial(url, exchange)
	if err != nil {
		return nil, err
	}
	return &Publisher{url: url, exchange: exchange, sess: sess}, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drop()
	return nil
}

func (p *Publisher) drop() {
	if p.sess != nil {
		p.sess.close()
		p.sess = nil
	}
}

func (p *Publisher) publish(ctx context.Context, env envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode %s: %w", env.Type, err)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, confirmWait)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.sess.alive() {
		p.drop()
		if p.sess, err = dial(p.url, p.exchange); err != nil {
			return err
		}
	}

	// not mandatory: an exchange with no bound queue is fine
	err = p.sess.ch.PublishWithContext(ctx, p.exchange, env.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.ID,
		Timestamp:    env.OccurredAt,
		Type:         env.Type,
		Body:         body,
	})
	if err != nil {
		p.drop()
		return fmt.Errorf("rabbitmq publish %s: %w", env.Type, err)
	}

	select {
	case c, ok := <-p.sess.confirms:
		switch {
		case !ok:
			p.drop()
			return fmt.Errorf("rabbitmq publish %s: channel closed before confirm", env.Type)
		case !c.Ack:
			return fmt.Errorf("rabbitmq publish %s: nacked (tag %d)", env.Type, c.DeliveryTag)
		}
		return nil
	case <-ctx.Done():
		// a late confirm would be read by the next publish
		p.drop()
		return fmt.Errorf("rabbitmq publish %s: %w", env.Type, ctx.Err())
	}
}
