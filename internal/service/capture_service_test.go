package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/psds-microservice/citypeople-service/internal/camera"
	"github.com/psds-microservice/citypeople-service/internal/errs"
	"github.com/psds-microservice/citypeople-service/internal/metrics"
	"github.com/psds-microservice/citypeople-service/internal/model"
	"go.uber.org/zap"
)

func newCapture(cam *fakeCamera, sender *fakeSender, ev *recordedEvents) *CaptureService {
	return NewCaptureService(cam, sender, fixedLocation("Austin"), ev, metrics.New(), zap.NewNop())
}

func TestRecord_FlipsThenStarts(t *testing.T) {
	cam := newFakeCamera()
	svc := newCapture(cam, &fakeSender{}, &recordedEvents{})
	if err := svc.Record(camera.Rear); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(cam.sideCalls) != 1 || cam.sideCalls[0] != camera.Rear {
		t.Errorf("side calls = %v", cam.sideCalls)
	}
	if cam.starts != 1 {
		t.Errorf("starts = %d", cam.starts)
	}
}

func TestSend_DefaultsFileAndLocation(t *testing.T) {
	cam := newFakeCamera()
	msg := "sent"
	sender := &fakeSender{resp: model.Success{Status: true, Message: &msg}}
	ev := &recordedEvents{}
	svc := newCapture(cam, sender, ev)

	resp, err := svc.Send(context.Background(), model.UploadRequest{Friends: []int{3}, Groups: []int{9}})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.Text() != "sent" {
		t.Errorf("message = %q", resp.Text())
	}
	job := sender.jobs[0]
	if job.LocalFile != "/tmp/rec.mp4" || job.Location != "Austin" {
		t.Errorf("job = %+v", job)
	}
	if got := ev.types(); len(got) != 1 || got[0] != model.EventUploadDone {
		t.Errorf("events = %v", got)
	}
	if svc.Uploading() {
		t.Error("upload flag not cleared")
	}
}

func TestSend_ExplicitLocationWins(t *testing.T) {
	sender := &fakeSender{resp: model.Success{Status: true}}
	svc := newCapture(newFakeCamera(), sender, &recordedEvents{})
	loc := "Denver"
	if _, err := svc.Send(context.Background(), model.UploadRequest{File: "/tmp/x.mp4", Location: &loc}); err != nil {
		t.Fatal(err)
	}
	if sender.jobs[0].Location != "Denver" || sender.jobs[0].LocalFile != "/tmp/x.mp4" {
		t.Errorf("job = %+v", sender.jobs[0])
	}
}

func TestSend_RefusesFilesOutsideRecordingsDir(t *testing.T) {
	dir := t.TempDir()
	foreign := filepath.Join(dir, "not-a-recording.conf")
	if err := os.WriteFile(foreign, []byte("secret=1"), 0o600); err != nil {
		t.Fatal(err)
	}
	cam := newFakeCamera()
	cam.snap.OutputPath = filepath.Join(dir, "rec", "recording.mp4")
	sender := &fakeSender{resp: model.Success{Status: true}}
	svc := newCapture(cam, sender, &recordedEvents{})

	for _, file := range []string{
		foreign,
		filepath.Join(dir, "rec", "..", "not-a-recording.conf"),
		filepath.Join(dir, "rec"),
		"/etc/hostname",
	} {
		if _, err := svc.Send(context.Background(), model.UploadRequest{File: file}); !errors.Is(err, errs.ErrForeignFile) {
			t.Errorf("Send(%q) err = %v, want ErrForeignFile", file, err)
		}
	}
	if len(sender.jobs) != 0 {
		t.Errorf("sender called with %+v", sender.jobs)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Errorf("foreign file touched: %v", err)
	}
	if svc.Uploading() {
		t.Error("upload flag left set")
	}

	inside := filepath.Join(dir, "rec", "take2.mp4")
	if _, err := svc.Send(context.Background(), model.UploadRequest{File: inside}); err != nil {
		t.Fatalf("Send inside dir: %v", err)
	}
	if sender.jobs[0].LocalFile != inside {
		t.Errorf("job file = %q", sender.jobs[0].LocalFile)
	}
}

func TestSend_FailurePublishesFailed(t *testing.T) {
	sender := &fakeSender{err: errs.ErrRejected}
	ev := &recordedEvents{}
	svc := newCapture(newFakeCamera(), sender, ev)
	if _, err := svc.Send(context.Background(), model.UploadRequest{}); !errors.Is(err, errs.ErrRejected) {
		t.Fatalf("err = %v", err)
	}
	if got := ev.types(); len(got) != 1 || got[0] != model.EventUploadFailed {
		t.Errorf("events = %v", got)
	}
}

func TestSend_WhileRecordingIsInvalid(t *testing.T) {
	cam := newFakeCamera()
	svc := newCapture(cam, &fakeSender{}, &recordedEvents{})
	_ = svc.Record(camera.Front)
	if _, err := svc.Send(context.Background(), model.UploadRequest{}); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("err = %v", err)
	}
}

func TestUploadInFlightGuard(t *testing.T) {
	cam := newFakeCamera()
	sender := &fakeSender{resp: model.Success{Status: true}, block: make(chan struct{}), started: make(chan struct{})}
	svc := newCapture(cam, sender, &recordedEvents{})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Send(context.Background(), model.UploadRequest{})
		done <- err
	}()
	<-sender.started

	if _, err := svc.Send(context.Background(), model.UploadRequest{}); !errors.Is(err, errs.ErrUploadInFlight) {
		t.Errorf("second send err = %v", err)
	}
	if err := svc.Record(camera.Rear); !errors.Is(err, errs.ErrUploadInFlight) {
		t.Errorf("record during upload err = %v", err)
	}
	if cam.starts != 0 {
		t.Errorf("recording started during upload")
	}

	close(sender.block)
	if err := <-done; err != nil {
		t.Fatalf("first send: %v", err)
	}
	if err := svc.Record(camera.Rear); err != nil {
		t.Fatalf("record after upload: %v", err)
	}
}

func TestRun_ForwardsCameraEvents(t *testing.T) {
	cam := newFakeCamera()
	ev := &recordedEvents{}
	svc := newCapture(cam, &fakeSender{}, ev)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()
	cam.events <- camera.Event{Kind: camera.EventRecorded, Path: "/tmp/rec.mp4", Duration: 2 * time.Second}
	cam.events <- camera.Event{Kind: camera.EventStopped}

	deadline := time.After(2 * time.Second)
	for len(ev.types()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("events = %v", ev.types())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
	got := ev.types()
	if got[0] != model.EventRecorded || got[1] != model.EventStopped {
		t.Errorf("events = %v", got)
	}
}
