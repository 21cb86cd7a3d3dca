package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/psds-microservice/citypeople-service/internal/camera"
	"github.com/psds-microservice/citypeople-service/internal/errs"
	"github.com/psds-microservice/citypeople-service/internal/metrics"
	"github.com/psds-microservice/citypeople-service/internal/model"
	"go.uber.org/zap"
)

// Camera is the part of camera.Controller the capture service drives.
type Camera interface {
	Show() error
	Teardown()
	SetSide(side camera.Side) error
	StartRecording() error
	StopRecording(ctx context.Context) (camera.Event, error)
	Snapshot() camera.Snapshot
	Events() <-chan camera.Event
}

// Sender uploads one recording.
type Sender interface {
	Send(ctx context.Context, job model.UploadJob) (model.Success, error)
}

// LocationSource returns the current locality.
type LocationSource interface {
	Current() string
}

// CaptureEvent is the payload of camera events on the event stream.
type CaptureEvent struct {
	Side       camera.Side `json:"side,omitempty"`
	Path       string      `json:"path,omitempty"`
	DurationMS int64       `json:"duration_ms,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// UploadEvent is the payload of upload events on the event stream.
type UploadEvent struct {
	File    string `json:"file"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CaptureService joins the camera and the upload pipeline: at most one upload
// runs at a time and no recording may start while it does.
type CaptureService struct {
	cam      Camera
	sender   Sender
	location LocationSource
	events   EventPublisher
	metrics  *metrics.Metrics
	log      *zap.Logger

	mu        sync.Mutex
	uploading bool
}

// NewCaptureService creates a capture service.
func NewCaptureService(cam Camera, sender Sender, location LocationSource, events EventPublisher, m *metrics.Metrics, log *zap.Logger) *CaptureService {
	return &CaptureService{cam: cam, sender: sender, location: location, events: events, metrics: m, log: log}
}

// Run forwards controller events to subscribers until ctx is done.
func (s *CaptureService) Run(ctx context.Context) {
	ch := s.cam.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			s.forward(ev)
		}
	}
}

func (s *CaptureService) forward(ev camera.Event) {
	payload := CaptureEvent{Side: ev.Side, Path: ev.Path, DurationMS: ev.Duration.Milliseconds()}
	if ev.Err != nil {
		payload.Error = ev.Err.Error()
	}
	var typ string
	switch ev.Kind {
	case camera.EventRecorded:
		typ = model.EventRecorded
		s.metrics.ObserveRecording("recorded", ev.Duration)
	case camera.EventDiscarded:
		typ = model.EventDiscarded
		s.metrics.ObserveRecording("discarded", ev.Duration)
	case camera.EventFailed:
		typ = model.EventCameraFailed
		s.metrics.ObserveRecording("failed", 0)
	case camera.EventStopped:
		typ = model.EventStopped
	case camera.EventSideChanged:
		typ = model.EventSideChanged
	default:
		s.log.Debug("unknown camera event", zap.String("kind", string(ev.Kind)))
		return
	}
	s.events.Publish(model.NewEvent(typ, payload))
}

// Snapshot returns the camera state plus the upload flag.
func (s *CaptureService) Snapshot() (camera.Snapshot, bool) {
	return s.cam.Snapshot(), s.Uploading()
}

// Uploading reports whether a send is in flight.
func (s *CaptureService) Uploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading
}

// Show starts the preview.
func (s *CaptureService) Show() error { return s.cam.Show() }

// Teardown stops the preview and any recording.
func (s *CaptureService) Teardown() { s.cam.Teardown() }

// SetSide switches the active camera.
func (s *CaptureService) SetSide(side camera.Side) error { return s.cam.SetSide(side) }

// Record flips to side and starts recording.
func (s *CaptureService) Record(side camera.Side) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploading {
		return errs.ErrUploadInFlight
	}
	if err := s.cam.SetSide(side); err != nil {
		return err
	}
	return s.cam.StartRecording()
}

// Stop finishes the recording and returns its outcome.
func (s *CaptureService) Stop(ctx context.Context) (camera.Event, error) {
	return s.cam.StopRecording(ctx)
}

// recordingPath resolves file against the directory of the camera output path.
// Files outside that directory are refused: a successful upload deletes them.
func recordingPath(file, outputPath string) (string, error) {
	if file == "" {
		return outputPath, nil
	}
	dir, err := filepath.Abs(filepath.Dir(outputPath))
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(dir, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", errs.ErrForeignFile, file)
	}
	return abs, nil
}

// Send uploads the recording. An empty file means the camera output path; an
// empty location means the current locality. Only files next to the camera
// output are accepted.
func (s *CaptureService) Send(ctx context.Context, req model.UploadRequest) (model.Success, error) {
	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return model.Success{}, errs.ErrUploadInFlight
	}
	snap := s.cam.Snapshot()
	if snap.IsRecording {
		s.mu.Unlock()
		return model.Success{}, errs.ErrInvalidState
	}
	file, err := recordingPath(req.File, snap.OutputPath)
	if err != nil {
		s.mu.Unlock()
		return model.Success{}, err
	}
	s.uploading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.uploading = false
		s.mu.Unlock()
	}()

	job := model.UploadJob{
		LocalFile:    file,
		RecipientIDs: req.Friends,
		GroupIDs:     req.Groups,
	}
	if req.Location != nil && *req.Location != "" {
		job.Location = *req.Location
	} else {
		job.Location = s.location.Current()
	}

	started := time.Now()
	resp, err := s.sender.Send(ctx, job)
	if err != nil {
		outcome := "failed"
		if errors.Is(err, errs.ErrRejected) {
			outcome = "rejected"
		}
		s.metrics.ObserveUpload(outcome, started)
		s.events.Publish(model.NewEvent(model.EventUploadFailed, UploadEvent{File: job.LocalFile, Error: err.Error()}))
		return resp, err
	}
	s.metrics.ObserveUpload("ok", started)
	s.events.Publish(model.NewEvent(model.EventUploadDone, UploadEvent{File: job.LocalFile, Message: resp.Text()}))
	return resp, nil
}
