package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/logger"
	"github.com/airbear/airbear-backend/pkg/metrics"
	"github.com/airbear/airbear-backend/pkg/types"
)

const (
	MessageTypeLocation = "airbear_location"

	defaultBuffer = 16
)

// Message is the envelope pushed to every subscriber.
type Message struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data"`
}

// LocationUpdate is a best-effort vehicle ping.
type LocationUpdate struct {
	AirbearID     uuid.UUID         `json:"airbearId"`
	CurrentSpotID *uuid.UUID        `json:"currentSpotId,omitempty"`
	Latitude      *types.Coordinate `json:"latitude,omitempty"`
	Longitude     *types.Coordinate `json:"longitude,omitempty"`
	BatteryLevel  int               `json:"batteryLevel"`
	IsAvailable   bool              `json:"isAvailable"`
	IsCharging    bool              `json:"isCharging"`
}

// Subscriber receives encoded messages on C until the hub drops it.
type Subscriber struct {
	ch chan []byte
}

func (s *Subscriber) C() <-chan []byte {
	return s.ch
}

// Hub fans location updates out to subscribers. A subscriber whose buffer
// is full misses that message; nobody else is held up.
type Hub struct {
	mu      sync.RWMutex
	subs    map[*Subscriber]struct{}
	metrics *metrics.DomainMetrics
	logg    *logger.Logger
	now     func() time.Time
}

func NewHub(m *metrics.DomainMetrics, logg *logger.Logger) *Hub {
	return &Hub{
		subs:    make(map[*Subscriber]struct{}),
		metrics: m,
		logg:    logg,
		now:     time.Now,
	}
}

// Subscribe registers a subscriber with the given buffer size.
func (h *Hub) Subscribe(buffer int) *Subscriber {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	s := &Subscriber{ch: make(chan []byte, buffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Unsubscribe removes s and closes its channel. Safe to call twice.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.ch)
	}
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// PublishLocation broadcasts a vehicle ping and returns how many subscribers
// received it.
func (h *Hub) PublishLocation(ctx context.Context, update LocationUpdate) int {
	return h.Publish(ctx, Message{Type: MessageTypeLocation, Data: update})
}

func (h *Hub) Publish(ctx context.Context, msg Message) int {
	if h == nil {
		return 0
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = h.now().UTC().UnixMilli()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		if h.logg != nil {
			h.logg.Error(ctx, "realtime.encode_failed", err)
		}
		return 0
	}

	delivered, dropped := 0, 0
	h.mu.RLock()
	for s := range h.subs {
		select {
		case s.ch <- data:
			delivered++
		default:
			dropped++
		}
	}
	h.mu.RUnlock()

	h.metrics.BroadcastDelivered(delivered)
	h.metrics.BroadcastDropped(dropped)
	if dropped > 0 && h.logg != nil {
		h.logg.Warn(h.logg.WithField(ctx, "dropped", dropped), "realtime.subscriber_full")
	}
	return delivered
}
