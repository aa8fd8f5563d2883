package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/blog-platform-api/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// unreachableBus points at a port nothing listens on
func unreachableBus() *RedisBus {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	return NewRedisBus(client, zerolog.Nop())
}

func TestChannelFor(t *testing.T) {
	assert.Equal(t, "notifications:user-1", channelFor("user-1"))
}

func TestPublishNeverBlocks(t *testing.T) {
	bus := unreachableBus()

	start := time.Now()
	bus.Publish(context.Background(), Event{
		UserID:       "user-1",
		Notification: &models.Notification{ID: "n1", RecipientID: "user-1"},
	})
	assert.Less(t, time.Since(start), 20*time.Millisecond)
}

func TestSubscribeReportsConnectionFailure(t *testing.T) {
	bus := unreachableBus()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	events, unsubscribe, err := bus.Subscribe(ctx, "user-1")
	assert.Error(t, err)
	assert.Nil(t, events)
	assert.Nil(t, unsubscribe)
}
