package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, "zeva:events")
	t.Cleanup(func() { sub.Close() })
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	p := &Publisher{Rdb: rdb, Channel: "zeva:events"}
	p.Publish(ctx, Event{
		Type:    TypeReportApproved,
		OrgID:   "org-1",
		Payload: map[string]interface{}{"model_year": 2026},
	})

	select {
	case msg := <-sub.Channel():
		var evt Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &evt))
		assert.Equal(t, TypeReportApproved, evt.Type)
		assert.Equal(t, "org-1", evt.OrgID)
		assert.False(t, evt.At.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestPublishNilPublisherIsNoOp(t *testing.T) {
	var p *Publisher
	p.Publish(context.Background(), Event{Type: TypeTransferExecuted})
}
