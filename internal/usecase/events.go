package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventAssetUpdated     EventType = "asset.updated"
	EventOwnershipChanged EventType = "asset.ownership_changed"
	EventModApproved      EventType = "asset.mod_approved"
)

// AssetEvent is published after a notification-worthy state change has
// committed. The core only publishes; transports (email worker, websocket
// feed) subscribe on their own terms.
type AssetEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	AssetID    string    `json:"asset_id"`
	AssetName  string    `json:"asset_name"`
	AssetOwner string    `json:"asset_owner"`
	Actor      string    `json:"actor"`
	Recipients []string  `json:"recipients"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, ev AssetEvent) error
}

// publish is fire and forget: the originating operation already committed,
// so a failed dispatch is logged and dropped rather than surfaced.
func (u Usecase) publish(ctx context.Context, typ EventType, asset DigitalAsset, actor string, recipients []string) {
	if u.pub == nil {
		return
	}
	ev := AssetEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		AssetID:    asset.AssetID,
		AssetName:  asset.AssetName,
		AssetOwner: asset.AssetOwner,
		Actor:      actor,
		Recipients: recipients,
		OccurredAt: time.Now(),
	}
	if err := u.pub.Publish(ctx, ev); err != nil {
		slog.Warn("publishing asset event",
			slog.String("event", string(typ)),
			slog.String("asset_id", asset.AssetID),
			slog.String("err", err.Error()))
	}
}

// MultiPublisher fans one event out to several publishers. The first
// failure is returned but all publishers are attempted.
func MultiPublisher(pubs ...EventPublisher) EventPublisher {
	return multiPublisher(pubs)
}

type multiPublisher []EventPublisher

func (m multiPublisher) Publish(ctx context.Context, ev AssetEvent) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Broker is an in-process publisher for live subscribers such as the
// websocket feed. Slow subscribers drop events instead of blocking the
// publishing operation.
type Broker struct {
	mu   sync.Mutex
	subs map[chan AssetEvent]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan AssetEvent]struct{})}
}

func (b *Broker) Publish(_ context.Context, ev AssetEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

func (b *Broker) Subscribe() chan AssetEvent {
	ch := make(chan AssetEvent, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan AssetEvent) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}
