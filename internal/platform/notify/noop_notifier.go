package notify

import (
	"context"
	"sync"

	portsplat "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/platform"
)

// NoopNotifier is used when no redis URL is configured. Publishes vanish and
// subscriptions deliver nothing until cancelled; portal clients fall back to
// refetching on demand.
type NoopNotifier struct{}

var _ portsplat.ChangeNotifier = (*NoopNotifier)(nil)

func (NoopNotifier) PublishCommentAdded(ctx context.Context, event portsplat.CommentEvent) error {
	return nil
}

func (NoopNotifier) SubscribeComments(ctx context.Context, budgetID string) (<-chan portsplat.CommentEvent, func(), error) {
	events := make(chan portsplat.CommentEvent)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		close(events)
	}()
	var once sync.Once
	cancel := func() {
		once.Do(func() { close(done) })
	}
	return events, cancel, nil
}
