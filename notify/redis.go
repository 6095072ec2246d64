package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.pilab.hu/idstore/cleanup"
	"go.pilab.hu/idstore/entity"
)

// DefaultChannel is used when NewRedis gets an empty channel name.
const DefaultChannel = "idstore:cleanup"

// Publisher is the subset of a Redis client the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Event is the JSON payload published for every removed batch.
type Event struct {
	Kind      string    `json:"kind"`
	Count     int       `json:"count"`
	ClientIDs []string  `json:"client_ids"`
	Keys      []string  `json:"keys"`
	RemovedAt time.Time `json:"removed_at"`
}

const (
	KindPersistedGrants = "persisted_grants"
	KindDeviceCodes     = "device_codes"
)

// Redis publishes an Event per removed batch on a pub/sub channel.
type Redis struct {
	publisher Publisher
	channel   string
	now       func() time.Time
}

var _ cleanup.Notification = (*Redis)(nil)

// NewRedis publishes removal events to channel, or DefaultChannel when it is empty.
func NewRedis(publisher Publisher, channel string) *Redis {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Redis{publisher: publisher, channel: channel, now: time.Now}
}

func (n *Redis) PersistedGrantsRemoved(ctx context.Context, grants []*entity.PersistedGrant) error {
	keys := make([]string, len(grants))
	for i, g := range grants {
		keys[i] = g.Key
	}
	return n.publish(ctx, Event{
		Kind:      KindPersistedGrants,
		Count:     len(grants),
		ClientIDs: grantClientIDs(grants),
		Keys:      keys,
	})
}

// DeviceCodesRemoved publishes device codes only; user codes are short and
// guessable, so they stay off the channel.
func (n *Redis) DeviceCodesRemoved(ctx context.Context, codes []*entity.DeviceFlowCodes) error {
	keys := make([]string, len(codes))
	for i, c := range codes {
		keys[i] = c.DeviceCode
	}
	return n.publish(ctx, Event{
		Kind:      KindDeviceCodes,
		Count:     len(codes),
		ClientIDs: deviceClientIDs(codes),
		Keys:      keys,
	})
}

func (n *Redis) publish(ctx context.Context, ev Event) error {
	ev.RemovedAt = n.now().UTC()

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", ev.Kind, err)
	}

	if err := n.publisher.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event to %s: %w", ev.Kind, n.channel, err)
	}
	return nil
}
