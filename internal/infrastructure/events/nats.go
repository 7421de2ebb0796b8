package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"artist-platform/internal/domains/artist/model"
	"artist-platform/internal/domains/artist/service"
	"artist-platform/pkg/logger"
)

// NATSPublisher publishes committed artist events as JSON on <prefix>.<event type>
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

var _ service.EventPublisher = (*NATSPublisher)(nil)

func Connect(url, clientName string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Error("nats disconnected", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", map[string]interface{}{"url": c.ConnectedUrl()})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return conn, nil
}

func NewNATSPublisher(conn *nats.Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix}
}

func (p *NATSPublisher) Publish(ctx context.Context, event model.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}
	return p.conn.Publish(Subject(p.prefix, event.Type), data)
}

// Subscribe delivers decoded events matching pattern, e.g. "artist.*" or ">"
func (p *NATSPublisher) Subscribe(pattern string, handler func(model.Event)) (*nats.Subscription, error) {
	return p.conn.Subscribe(Subject(p.prefix, pattern), func(msg *nats.Msg) {
		var event model.Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("dropping undecodable event on "+msg.Subject, err)
			return
		}
		handler(event)
	})
}

func Subject(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}
