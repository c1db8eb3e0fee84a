package ws

import (
	"context"
	"time"

	"brandhub/pkg/events"
)

// LedgerHub streams settlement and commission events to connected admin dashboards.
// It satisfies events.Publisher so it can sit next to the AMQP producer.
type LedgerHub struct {
	*Hub
}

func NewLedgerHub() *LedgerHub {
	return &LedgerHub{Hub: NewHub()}
}

func (h *LedgerHub) Publish(ctx context.Context, routingKey string, data interface{}) error {
	h.BroadcastAll(events.Envelope{Type: routingKey, OccurredAt: time.Now().UTC(), Data: data})
	return nil
}

func (h *LedgerHub) Close() { h.CloseAll() }

var _ events.Publisher = (*LedgerHub)(nil)
