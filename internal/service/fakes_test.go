package service

import (
	"context"
	"sync"

	"github.com/psds-microservice/citypeople-service/internal/camera"
	"github.com/psds-microservice/citypeople-service/internal/model"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recordedEvents) Publish(ev model.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type fakeCamera struct {
	mu        sync.Mutex
	snap      camera.Snapshot
	sideCalls []camera.Side
	starts    int
	events    chan camera.Event
	stopEvent camera.Event
}

func newFakeCamera() *fakeCamera {
	return &fakeCamera{
		snap:   camera.Snapshot{State: camera.StatePreviewing, ActiveSide: camera.Front, OutputPath: "/tmp/rec.mp4"},
		events: make(chan camera.Event, 8),
	}
}

func (c *fakeCamera) Show() error { return nil }
func (c *fakeCamera) Teardown()   {}

func (c *fakeCamera) SetSide(side camera.Side) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sideCalls = append(c.sideCalls, side)
	c.snap.ActiveSide = side
	return nil
}

func (c *fakeCamera) StartRecording() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts++
	c.snap.State = camera.StateRecording
	c.snap.IsRecording = true
	return nil
}

func (c *fakeCamera) StopRecording(context.Context) (camera.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.State = camera.StatePreviewing
	c.snap.IsRecording = false
	return c.stopEvent, nil
}

func (c *fakeCamera) Snapshot() camera.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

func (c *fakeCamera) Events() <-chan camera.Event { return c.events }

type fakeSender struct {
	jobs    []model.UploadJob
	resp    model.Success
	err     error
	block   chan struct{}
	started chan struct{}
}

func (s *fakeSender) Send(_ context.Context, job model.UploadJob) (model.Success, error) {
	s.jobs = append(s.jobs, job)
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	return s.resp, s.err
}

type fixedLocation string

func (l fixedLocation) Current() string { return string(l) }
