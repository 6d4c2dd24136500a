package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
)

const auditQueueName = "codegate.audit"

// AuditConsumer binds a durable queue to every routing key on the exchange
// and appends one line per message to an audit log file.
type AuditConsumer struct {
	URL      string
	Exchange string
	LogPath  string
	Log      *slog.Logger
}

// Run connects and consumes until ctx is cancelled, reconnecting with
// exponential backoff (capped at 30s) whenever the broker goes away.
func (c AuditConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warn("audit consumer: dial failed", "error", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Warn("audit consumer: consume loop ended; reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
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

func (c AuditConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warn("audit consumer: set QoS failed", "error", err)
	}
	if err := declareExchange(ch, c.Exchange); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(auditQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(auditQueueName, "#", c.Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}
	msgs, err := ch.Consume(auditQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handle(d.RoutingKey, d.Body); err != nil {
				c.Log.Error("audit consumer: handle message failed", "routing_key", d.RoutingKey, "error", err)
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c AuditConsumer) handle(routingKey string, body []byte) error {
	line, err := FormatAuditLine(routingKey, body)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.LogPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatAuditLine renders a message as a single human-readable line.
func FormatAuditLine(routingKey string, body []byte) (string, error) {
	switch routingKey {
	case RoutingEventCreated:
		var ev EventCreated
		if err := sonic.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", routingKey, err)
		}
		return fmt.Sprintf("[%s] Event created | event_id=%s | title=%q | category=%s | date=%s | capacity=%d\n",
			ev.CreatedAt.Format(time.RFC3339), ev.EventID, ev.Title, ev.Category, ev.EventDate.Format(time.RFC3339), ev.Capacity), nil
	case RoutingTicketsPurchased:
		var ev TicketsPurchased
		if err := sonic.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", routingKey, err)
		}
		return fmt.Sprintf("[%s] Tickets purchased | event_id=%s | event=%q | user_id=%s | type=%s | qty=%d | total=%.2f %s | tickets=[%s]\n",
			ev.PurchasedAt.Format(time.RFC3339), ev.EventID, ev.EventTitle, ev.UserID, ev.TicketType, ev.Quantity,
			ev.TotalAmount, ev.Currency, strings.Join(ev.TicketIDs, ",")), nil
	case RoutingCheckInCompleted:
		var ev CheckInCompleted
		if err := sonic.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", routingKey, err)
		}
		return fmt.Sprintf("[%s] Check-in | checkin_id=%s | ticket_id=%s | event=%q | user_id=%s | staff_id=%s | location=%q\n",
			ev.CheckedInAt.Format(time.RFC3339), ev.CheckInID, ev.TicketID, ev.EventTitle, ev.UserID, ev.StaffID, ev.Location), nil
	}
	return "", fmt.Errorf("unknown routing key %q", routingKey)
}
