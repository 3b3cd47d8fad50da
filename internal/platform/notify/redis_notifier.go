package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	portsplat "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/platform"
)

// commentChannel is the pub/sub channel for one budget's comment inserts.
func commentChannel(budgetID string) string {
	return "budget:" + budgetID + ":comments"
}

// RedisNotifier fans comment insert events out over redis pub/sub so portal
// sessions watching a budget refresh without polling.
type RedisNotifier struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisNotifier connects to redis using the given URL and verifies the
// connection with a ping.
func NewRedisNotifier(ctx context.Context, redisURL string, logger *slog.Logger) (*RedisNotifier, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisNotifier{client: client, logger: logger}, nil
}

var _ portsplat.ChangeNotifier = (*RedisNotifier)(nil)

// PublishCommentAdded pushes one event onto the budget's channel.
func (n *RedisNotifier) PublishCommentAdded(ctx context.Context, event portsplat.CommentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal comment event: %w", err)
	}
	if err := n.client.Publish(ctx, commentChannel(event.BudgetID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish comment event: %w", err)
	}
	return nil
}

// SubscribeComments streams events for one budget until the context is done.
func (n *RedisNotifier) SubscribeComments(ctx context.Context, budgetID string) (<-chan portsplat.CommentEvent, func(), error) {
	sub := n.client.Subscribe(ctx, commentChannel(budgetID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to comment channel: %w", err)
	}

	events := make(chan portsplat.CommentEvent)
	go func() {
		defer close(events)
		for msg := range sub.Channel() {
			var event portsplat.CommentEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				n.logger.Warn("Failed to decode comment event",
					slog.String("budget_id", budgetID),
					slog.String("error", err.Error()),
				)
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		_ = sub.Close()
	}
	return events, cancel, nil
}

// Close releases the redis connection.
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
