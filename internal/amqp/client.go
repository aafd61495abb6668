package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"speseledger/internal/ledger"
	applog "speseledger/internal/log"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// dialFunc opens a connection and a channel with the exchange declared.
type dialFunc func() (closer, channel, error)

type closer interface {
	Close() error
}

// Publisher sends ledger change notifications to a topic exchange.
type Publisher struct {
	dial         dialFunc
	conn         closer
	channel      channel
	exchangeName string
	routingKey   string
	timeout      time.Duration
}

func NewPublisher(url, exchangeName, routingKey string, timeout time.Duration) (*Publisher, error) {
	dial := func() (closer, channel, error) {
		conn, err := amqp091.Dial(url)
		if err != nil {
			return nil, nil, fmt.Errorf("dial AMQP: %w", err)
		}

		ch, err := conn.Channel()
		if err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open channel: %w", err)
		}

		err = ch.ExchangeDeclare(
			exchangeName, // name
			"topic",      // type
			true,         // durable
			false,        // auto-deleted
			false,        // internal
			false,        // no-wait
			nil,          // arguments
		)
		if err != nil {
			ch.Close()
			conn.Close()
			return nil, nil, fmt.Errorf("declare exchange: %w", err)
		}
		return conn, ch, nil
	}
	return newPublisher(dial, exchangeName, routingKey, timeout)
}

func newPublisher(dial dialFunc, exchangeName, routingKey string, timeout time.Duration) (*Publisher, error) {
	conn, ch, err := dial()
	if err != nil {
		return nil, err
	}
	return &Publisher{
		dial:         dial,
		conn:         conn,
		channel:      ch,
		exchangeName: exchangeName,
		routingKey:   routingKey,
		timeout:      timeout,
	}, nil
}

// PublishChange publishes msg, reconnecting once if the connection dropped.
func (p *Publisher) PublishChange(ctx context.Context, msg *LedgerChangedMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if p.channel == nil {
		if err := p.reconnect(); err != nil {
			return fmt.Errorf("reconnect: %w", err)
		}
	}

	err = p.publish(ctx, body)
	if isConnectionError(err) {
		applog.FromContext(ctx).WithComponent(applog.ComponentAMQP).WarnContext(ctx, "AMQP connection lost, reconnecting", applog.FieldError, err)
		if rerr := p.reconnect(); rerr != nil {
			return fmt.Errorf("reconnect: %w", rerr)
		}
		err = p.publish(ctx, body)
	}
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentAMQP).DebugContext(ctx, "Published ledger change",
		applog.FieldOperation, msg.Op,
		applog.FieldIndex, msg.Index,
		"exchange", p.exchangeName,
		"routing_key", p.routingKey)
	return nil
}

func (p *Publisher) publish(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		p.routingKey,   // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (p *Publisher) reconnect() error {
	p.closeQuietly()
	conn, ch, err := p.dial()
	if err != nil {
		return err
	}
	p.conn, p.channel = conn, ch
	return nil
}

// Observer adapts the publisher to ledger.Store.Subscribe. Failures are
// logged and never fail the mutation.
func (p *Publisher) Observer() ledger.Observer {
	return func(ctx context.Context, c ledger.Change) {
		if err := p.PublishChange(ctx, NewLedgerChangedMessage(c)); err != nil {
			applog.FromContext(ctx).WithComponent(applog.ComponentAMQP).ErrorContext(ctx, "Ledger change not published",
				applog.NewFields().WithError(err).WithErrorType(applog.ErrorTypeNetwork).WithOperation(applog.OpPublish).ToSlice()...)
		}
	}
}

func (p *Publisher) closeQuietly() {
	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *Publisher) Close() error {
	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil && !errors.Is(err, amqp091.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && !errors.Is(err, amqp091.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "channel/connection is not open", "eof", "broken pipe"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
