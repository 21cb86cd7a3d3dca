package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/psds-microservice/citypeople-service/internal/model"
	amqp "github.com/rabbitmq/amqp091-go"
)

func TestMessage(t *testing.T) {
	ev := model.NewEvent(model.EventUploadDone, map[string]string{"message": "ok"})
	msg, err := Message(ev)
	if err != nil {
		t.Fatalf("Message: %v", err)
	}
	if msg.ContentType != "application/json" || msg.DeliveryMode != amqp.Persistent {
		t.Errorf("unexpected headers: %+v", msg)
	}
	if msg.MessageId != ev.ID || msg.Type != model.EventUploadDone {
		t.Errorf("id/type = %q/%q", msg.MessageId, msg.Type)
	}
	var back map[string]any
	if err := json.Unmarshal(msg.Body, &back); err != nil {
		t.Fatalf("body: %v", err)
	}
	if back["type"] != model.EventUploadDone {
		t.Errorf("body type = %v", back["type"])
	}
}

func TestClosedPublisher(t *testing.T) {
	p := &AMQPPublisher{exchange: "x"}
	if err := p.Publish(context.Background(), model.NewEvent("t", nil)); err != amqp.ErrClosed {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	var n Nop
	if err := n.Publish(context.Background(), model.Event{}); err != nil {
		t.Fatal(err)
	}
}
