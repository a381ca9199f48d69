package nats

import (
	"context"

	"github.com/nats-io/nats.go"
)

// Publisher sends relayed outbox events to NATS subjects.
type Publisher struct {
	Conn *nats.Conn
}

func NewPublisher(conn *nats.Conn) *Publisher {
	return &Publisher{Conn: conn}
}

func (p *Publisher) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.Conn.Publish(subject, data)
}

// Subscribe delivers every event under prefix.> to handler.
func (p *Publisher) Subscribe(prefix string, handler func(subject string, data []byte)) (*nats.Subscription, error) {
	return p.Conn.Subscribe(prefix+".>", func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
}
