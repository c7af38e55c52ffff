// Package events publishes report and transfer status events over Redis
// pub/sub. The client is constructed at startup and injected, never built
// lazily at module level.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Event types published on the channel.
const (
	TypeReportApproved   = "report_approved"
	TypeReportRejected   = "report_rejected"
	TypeTransferExecuted = "transfer_executed"
	TypeReassessment     = "reassessment_created"
)

// Event is the wire shape pushed to subscribers (frontend status feeds).
type Event struct {
	Type    string                 `json:"type"`
	OrgID   string                 `json:"org_id"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	At      time.Time              `json:"at"`
}

// Publisher fans status events out on one Redis channel. A nil Publisher
// or nil client is a no-op so services stay testable without Redis.
type Publisher struct {
	Rdb     *redis.Client
	Channel string
}

// Publish sends one event. Delivery is best-effort: a publish failure is
// logged and swallowed. Status events must never fail the business
// operation that produced them.
func (p *Publisher) Publish(ctx context.Context, evt Event) {
	if p == nil || p.Rdb == nil {
		return
	}
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	b, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Str("type", evt.Type).Msg("event marshal failed")
		return
	}
	if err := p.Rdb.Publish(ctx, p.Channel, b).Err(); err != nil {
		log.Error().Err(err).Str("type", evt.Type).Str("channel", p.Channel).Msg("event publish failed")
	}
}
