package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/psds-microservice/citypeople-service/internal/model"
	"go.uber.org/zap"
)

type brokerSpy struct {
	published []model.Event
	err       error
	closed    bool
}

func (b *brokerSpy) Publish(_ context.Context, ev model.Event) error {
	b.published = append(b.published, ev)
	return b.err
}

func (b *brokerSpy) Close() error { b.closed = true; return nil }

func TestEventHub_FanOut(t *testing.T) {
	hub := NewEventHub(2, 1024, 1024, zap.NewNop())
	broker := &brokerSpy{}
	hub.SetBroker(broker)

	a, cleanupA := hub.Register(nil)
	b, cleanupB := hub.Register(nil)
	if hub.SubscriberCount() != 2 {
		t.Fatalf("count = %d", hub.SubscriberCount())
	}

	hub.Publish(model.NewEvent(model.EventStopped, nil))
	for _, s := range []*Subscriber{a, b} {
		raw := <-s.Send
		var ev model.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatal(err)
		}
		if ev.Type != model.EventStopped || ev.ID == "" {
			t.Errorf("event = %+v", ev)
		}
	}
	if len(broker.published) != 1 {
		t.Errorf("broker got %d events", len(broker.published))
	}

	cleanupA()
	cleanupA()
	if _, ok := <-a.Send; ok {
		t.Error("send channel not closed")
	}
	cleanupB()
	if hub.SubscriberCount() != 0 {
		t.Errorf("count after cleanup = %d", hub.SubscriberCount())
	}
}

func TestEventHub_FullBufferDrops(t *testing.T) {
	hub := NewEventHub(1, 1024, 1024, zap.NewNop())
	hub.SetBroker(&brokerSpy{err: errors.New("down")})
	s, cleanup := hub.Register(nil)
	defer cleanup()

	hub.Publish(model.NewEvent("one", nil))
	hub.Publish(model.NewEvent("two", nil))
	if len(s.Send) != 1 {
		t.Fatalf("buffered = %d", len(s.Send))
	}
	var ev model.Event
	_ = json.Unmarshal(<-s.Send, &ev)
	if ev.Type != "one" {
		t.Errorf("kept %q, want the first event", ev.Type)
	}
}

func TestEventHub_Close(t *testing.T) {
	hub := NewEventHub(1, 1024, 1024, zap.NewNop())
	broker := &brokerSpy{}
	hub.SetBroker(broker)
	s, cleanup := hub.Register(nil)
	hub.Close()
	cleanup()
	if _, ok := <-s.Send; ok {
		t.Error("send channel not closed")
	}
	if !broker.closed {
		t.Error("broker not closed")
	}
}
