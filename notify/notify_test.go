package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.pilab.hu/idstore/entity"
	"go.pilab.hu/idstore/log"
)

type fakePublisher struct {
	channel  string
	messages [][]byte
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	if p.err != nil {
		cmd.SetErr(p.err)
		return cmd
	}
	p.channel = channel
	p.messages = append(p.messages, message.([]byte))
	cmd.SetVal(1)
	return cmd
}

func grants() []*entity.PersistedGrant {
	return []*entity.PersistedGrant{
		{Key: "k1", ClientID: "web"},
		{Key: "k2", ClientID: "web"},
		{Key: "k3", ClientID: "cli"},
	}
}

func TestRedis_PublishesGrantEvent(t *testing.T) {
	pub := &fakePublisher{}
	n := NewRedis(pub, "")
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return fixed }

	require.NoError(t, n.PersistedGrantsRemoved(context.Background(), grants()))

	assert.Equal(t, DefaultChannel, pub.channel)
	require.Len(t, pub.messages, 1)

	var ev Event
	require.NoError(t, json.Unmarshal(pub.messages[0], &ev))
	assert.Equal(t, Event{
		Kind:      KindPersistedGrants,
		Count:     3,
		ClientIDs: []string{"web", "cli"},
		Keys:      []string{"k1", "k2", "k3"},
		RemovedAt: fixed,
	}, ev)
}

func TestRedis_PublishesDeviceCodeEvent(t *testing.T) {
	pub := &fakePublisher{}
	n := NewRedis(pub, "custom")

	codes := []*entity.DeviceFlowCodes{{DeviceCode: "dc1", UserCode: "UC1", ClientID: "tv"}}
	require.NoError(t, n.DeviceCodesRemoved(context.Background(), codes))

	assert.Equal(t, "custom", pub.channel)
	require.Len(t, pub.messages, 1)
	assert.NotContains(t, string(pub.messages[0]), "UC1")

	var ev Event
	require.NoError(t, json.Unmarshal(pub.messages[0], &ev))
	assert.Equal(t, KindDeviceCodes, ev.Kind)
	assert.Equal(t, []string{"dc1"}, ev.Keys)
	assert.Equal(t, []string{"tv"}, ev.ClientIDs)
}

func TestRedis_PublishError(t *testing.T) {
	n := NewRedis(&fakePublisher{err: errors.New("connection refused")}, "ch")

	err := n.PersistedGrantsRemoved(context.Background(), grants())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogging(log.New(&buf, zerolog.InfoLevel))

	require.NoError(t, n.PersistedGrantsRemoved(context.Background(), grants()))

	out := buf.String()
	assert.Contains(t, out, "expired persisted grants removed")
	assert.Contains(t, out, `"count":3`)
	assert.Contains(t, out, `"client_ids":["web","cli"]`)
}

type mockNotification struct {
	mock.Mock
}

func (m *mockNotification) PersistedGrantsRemoved(ctx context.Context, grants []*entity.PersistedGrant) error {
	return m.Called(ctx, grants).Error(0)
}

func (m *mockNotification) DeviceCodesRemoved(ctx context.Context, codes []*entity.DeviceFlowCodes) error {
	return m.Called(ctx, codes).Error(0)
}

func TestMulti_CallsEveryObserver(t *testing.T) {
	ctx := context.Background()
	first, second := &mockNotification{}, &mockNotification{}
	boom := errors.New("boom")
	codes := []*entity.DeviceFlowCodes{{DeviceCode: "dc"}}

	first.On("DeviceCodesRemoved", ctx, codes).Return(boom)
	second.On("DeviceCodesRemoved", ctx, codes).Return(nil)

	err := Multi{first, second}.DeviceCodesRemoved(ctx, codes)

	require.ErrorIs(t, err, boom)
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestMulti_Empty(t *testing.T) {
	assert.NoError(t, Multi(nil).PersistedGrantsRemoved(context.Background(), grants()))
}

func TestRedis_Integration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping Redis integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	channel := "idstore_test_" + time.Now().Format("150405.000000")
	sub := client.Subscribe(ctx, channel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, NewRedis(client, channel).PersistedGrantsRemoved(ctx, grants()))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
	assert.Equal(t, 3, ev.Count)
}
