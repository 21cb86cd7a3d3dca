package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/psds-microservice/citypeople-service/internal/metrics"
	"github.com/psds-microservice/citypeople-service/internal/model"
	"github.com/psds-microservice/citypeople-service/internal/notify"
	"go.uber.org/zap"
)

// Subscriber is one WebSocket connection listening to service events.
type Subscriber struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// EventPublisher — то, что сервисы используют для отправки событий (D: зависимость от абстракции).
type EventPublisher interface {
	Publish(ev model.Event)
}

// EventHubForHandler — интерфейс для WebSocket handler.
type EventHubForHandler interface {
	Register(conn *websocket.Conn) (*Subscriber, func())
	Upgrader() *websocket.Upgrader
}

// EventHub fans events out to WebSocket subscribers and the optional broker.
type EventHub struct {
	mu       sync.RWMutex
	subs     map[*Subscriber]struct{}
	upgrader websocket.Upgrader
	buffer   int
	log      *zap.Logger
	broker   notify.Publisher
	metrics  *metrics.Metrics
	ctx      context.Context // app context for broker publishes (shutdown propagation)
}

// NewEventHub creates a hub; buffer is the per-subscriber queue length.
func NewEventHub(buffer, readBuf, writeBuf int, log *zap.Logger) *EventHub {
	if buffer <= 0 {
		buffer = 64
	}
	return &EventHub{
		subs:   make(map[*Subscriber]struct{}),
		buffer: buffer,
		log:    log,
		broker: notify.Nop{},
		ctx:    context.Background(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBuf,
			WriteBufferSize: writeBuf,
			// Local UI only; in prod set CheckOrigin.
		},
	}
}

// SetBroker sets the optional external publisher.
func (h *EventHub) SetBroker(p notify.Publisher) {
	if p != nil {
		h.broker = p
	}
}

// SetMetrics sets the metrics sink for subscriber counts.
func (h *EventHub) SetMetrics(m *metrics.Metrics) { h.metrics = m }

// SetContext sets the app context for broker publishes.
func (h *EventHub) SetContext(ctx context.Context) { h.ctx = ctx }

// Register adds a subscriber and returns a cleanup function.
func (h *EventHub) Register(conn *websocket.Conn) (*Subscriber, func()) {
	s := &Subscriber{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, h.buffer),
	}
	h.add(s)
	return s, func() { h.unregister(s) }
}

func (h *EventHub) add(s *Subscriber) {
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	h.metrics.Subscribers(1)
	h.log.Info("subscriber registered", zap.String("subscriber_id", s.ID))
}

func (h *EventHub) unregister(s *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[s]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.subs, s)
	close(s.Send)
	h.mu.Unlock()
	h.metrics.Subscribers(-1)
	h.log.Info("subscriber unregistered", zap.String("subscriber_id", s.ID))
}

// Publish implements EventPublisher. Full subscriber buffers drop the event.
func (h *EventHub) Publish(ev model.Event) {
	raw, err := json.Marshal(ev)
	if err != nil {
		h.log.Warn("event marshal failed", zap.String("type", ev.Type), zap.Error(err))
		return
	}
	// Send under the read lock so unregister cannot close a channel mid-send.
	h.mu.RLock()
	for s := range h.subs {
		select {
		case s.Send <- raw:
		default:
			h.log.Warn("subscriber send buffer full", zap.String("subscriber_id", s.ID), zap.String("type", ev.Type))
		}
	}
	h.mu.RUnlock()

	if err := h.broker.Publish(h.ctx, ev); err != nil {
		h.log.Warn("broker publish failed", zap.String("type", ev.Type), zap.Error(err))
	}
}

// Close disconnects every subscriber and closes the broker.
func (h *EventHub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[*Subscriber]struct{})
	h.mu.Unlock()

	for s := range subs {
		close(s.Send)
		if s.Conn != nil {
			_ = s.Conn.Close()
		}
		h.metrics.Subscribers(-1)
	}
	if err := h.broker.Close(); err != nil {
		h.log.Warn("broker close failed", zap.Error(err))
	}
}

// Upgrader returns the WebSocket upgrader for HTTP handlers.
func (h *EventHub) Upgrader() *websocket.Upgrader {
	return &h.upgrader
}

// SubscriberCount returns the number of subscribers (for debugging).
func (h *EventHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
