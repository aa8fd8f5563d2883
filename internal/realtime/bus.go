// Package realtime carries notification events to live client sessions.
// Delivery is at-most-once: publishing never blocks and never fails the caller.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blog-platform-api/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Event is one notification pushed to a user's session
type Event struct {
	UserID       string               `json:"userId"`
	Notification *models.Notification `json:"notification"`
}

// Publisher is what the notification dispatcher depends on
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Bus publishes events and lets a session subscribe to its own
type Bus interface {
	Publisher
	// Subscribe returns a channel of events for userID and a function that
	// closes the subscription
	Subscribe(ctx context.Context, userID string) (<-chan Event, func(), error)
}

const publishTimeout = 2 * time.Second

func channelFor(userID string) string {
	return fmt.Sprintf("notifications:%s", userID)
}

// RedisBus fans events out through Redis pub/sub so every API instance can
// serve any user's stream
type RedisBus struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewRedisBus creates a bus on an existing client
func NewRedisBus(client *redis.Client, log zerolog.Logger) *RedisBus {
	return &RedisBus{
		client: client,
		log:    log.With().Str("component", "realtime").Logger(),
	}
}

// Publish sends the event in the background
func (b *RedisBus) Publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.log.Warn().Err(err).Msg("Failed to encode event")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := b.client.Publish(ctx, channelFor(event.UserID), payload).Err(); err != nil {
			b.log.Debug().Err(err).Str("user_id", event.UserID).Msg("Realtime push dropped")
		}
	}()
}

// Subscribe listens on the user's channel until ctx ends or the returned
// close function is called
func (b *RedisBus) Subscribe(ctx context.Context, userID string) (<-chan Event, func(), error) {
	sub := b.client.Subscribe(ctx, channelFor(userID))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	go func() {
		<-ctx.Done()
		sub.Close()
	}()

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.log.Warn().Err(err).Msg("Dropping malformed event")
				continue
			}
			select {
			case out <- event:
			default:
				// slow consumer
			}
		}
	}()

	return out, func() { sub.Close() }, nil
}
