package testutil

import (
	"context"

	"github.com/guardianapis/product-switch/internal/notification"
)

var _ notification.Publisher = (*InMemoryPublisher)(nil)

// InMemoryPublisher records published messages instead of sending them.
type InMemoryPublisher struct {
	Messages []*notification.Message
	Err      error
}

func (p *InMemoryPublisher) Publish(ctx context.Context, msg *notification.Message) error {
	if p.Err != nil {
		return p.Err
	}
	p.Messages = append(p.Messages, msg)
	return nil
}
