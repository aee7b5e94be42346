package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/franqnet/console-sync/internal/core/domain"
)

const (
	billingChannel   = "console:billing:changes"
	broadcastChannel = "console:entities:broadcast"

	eventBuffer = 256
)

// RealtimeSource subscribes to the push channels the remote side publishes
// row changes and entity broadcasts on, and decodes them into the change
// event union the reconciler consumes.
type RealtimeSource struct {
	client *redis.Client
	log    zerolog.Logger
	pubsub *redis.PubSub
}

// NewRealtimeSource wraps the given Redis client. Subscribe must be called
// before events flow.
func NewRealtimeSource(client *redis.Client, log zerolog.Logger) *RealtimeSource {
	return &RealtimeSource{
		client: client,
		log:    log.With().Str("component", "realtime_source").Logger(),
	}
}

// billingMessage is the wire form on the billing changes channel.
type billingMessage struct {
	Op     string                `json:"op"`
	ID     string                `json:"id,omitempty"`
	Record *domain.BillingRecord `json:"record,omitempty"`
}

// broadcastMessage is the wire form on the entity broadcast channel. Record
// stays raw until Type selects the concrete shape.
type broadcastMessage struct {
	Type   string          `json:"type"`
	Record json.RawMessage `json:"record"`
}

// Subscribe opens the pub/sub subscription and returns the decoded event
// stream. The channel closes when ctx is cancelled or Close is called.
func (s *RealtimeSource) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	pubsub := s.client.Subscribe(ctx, billingChannel, broadcastChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("realtime subscribe: %w", err)
	}
	s.pubsub = pubsub

	events := make(chan domain.ChangeEvent, eventBuffer)
	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				ev, err := s.decode(msg)
				if err != nil {
					s.log.Warn().Err(err).Str("channel", msg.Channel).Msg("push message dropped")
					continue
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}

func (s *RealtimeSource) decode(msg *redis.Message) (domain.ChangeEvent, error) {
	switch msg.Channel {
	case billingChannel:
		var m billingMessage
		if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
			return nil, fmt.Errorf("decode billing change: %w", err)
		}
		op := domain.ChangeOp(m.Op)
		switch op {
		case domain.OpInsert, domain.OpUpdate, domain.OpDelete:
		default:
			return nil, fmt.Errorf("unknown billing change op %q", m.Op)
		}
		return domain.BillingRowChange{Op: op, RecordID: m.ID, Record: m.Record}, nil

	case broadcastChannel:
		var m broadcastMessage
		if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
			return nil, fmt.Errorf("decode broadcast: %w", err)
		}
		switch m.Type {
		case "unit":
			var u domain.Unit
			if err := json.Unmarshal(m.Record, &u); err != nil {
				return nil, fmt.Errorf("decode unit broadcast: %w", err)
			}
			return domain.UnitBroadcast{Unit: u}, nil
		case "franchisee":
			var f domain.Franchisee
			if err := json.Unmarshal(m.Record, &f); err != nil {
				return nil, fmt.Errorf("decode franchisee broadcast: %w", err)
			}
			return domain.FranchiseeBroadcast{Franchisee: f}, nil
		default:
			return nil, fmt.Errorf("unknown broadcast type %q", m.Type)
		}
	}
	return nil, fmt.Errorf("unexpected channel %q", msg.Channel)
}

// Close tears down the subscription.
func (s *RealtimeSource) Close() error {
	if s.pubsub == nil {
		return nil
	}
	return s.pubsub.Close()
}
