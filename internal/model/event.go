package model

import (
	"time"

	"github.com/google/uuid"
)

// Event types pushed to /ws/events subscribers and the broker.
const (
	EventRecorded     = "camera.recorded"
	EventDiscarded    = "camera.discarded"
	EventStopped      = "camera.stopped"
	EventSideChanged  = "camera.side_changed"
	EventCameraFailed = "camera.failed"
	EventUploadDone   = "upload.done"
	EventUploadFailed = "upload.failed"
	EventFeedUpdated  = "feed.updated"
)

// Event is one notification delivered to subscribers.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(typ string, data any) Event {
	return Event{ID: uuid.NewString(), Type: typ, At: time.Now().UTC(), Data: data}
}
