package memory

import (
	"context"
	"errors"
	"sync"
)

var errPublishFailed = errors.New("publish failed")

type Published struct {
	Subject string
	Data    []byte
}

// Publisher records published events. Setting Err makes every publish fail;
// FailNext fails only that many upcoming publishes.
type Publisher struct {
	mu       sync.Mutex
	messages []Published
	Err      error
	FailNext int
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(ctx context.Context, subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	if p.FailNext > 0 {
		p.FailNext--
		return errPublishFailed
	}
	p.messages = append(p.messages, Published{Subject: subject, Data: append([]byte(nil), data...)})
	return nil
}

func (p *Publisher) Messages() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Published(nil), p.messages...)
}
