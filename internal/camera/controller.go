// Package camera owns the capture session: device selection, recording to a
// fixed output file and the short-recording filter.
package camera

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/psds-microservice/citypeople-service/internal/errs"
	"go.uber.org/zap"
)

// Side is the physical camera position.
type Side string

const (
	Front Side = "front"
	Rear  Side = "rear"
)

// ParseSide accepts "front" and "rear".
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Front, Rear:
		return Side(s), nil
	}
	return "", fmt.Errorf("unknown camera side %q", s)
}

// State of the capture session.
type State string

const (
	StateIdle       State = "idle"
	StatePreviewing State = "previewing"
	StateRecording  State = "recording"
)

// DefaultMinDuration: shorter recordings are treated as accidental taps.
const DefaultMinDuration = time.Second

// Input is an attached capture device.
type Input interface {
	Side() Side
}

// Discovery finds the device for a side.
type Discovery interface {
	Device(side Side) (Input, error)
}

// Session is the platform capture session.
type Session interface {
	AddInput(in Input) error
	RemoveInput(in Input)
	StartRunning() error
	StopRunning()
	StartRecording(path string) error
	StopRecording() error
}

// Prober reads the duration of a finished recording.
type Prober interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// EventKind tags controller events.
type EventKind string

const (
	EventRecorded    EventKind = "recorded"
	EventDiscarded   EventKind = "discarded"
	EventFailed      EventKind = "failed"
	EventStopped     EventKind = "stopped"
	EventSideChanged EventKind = "side_changed"
)

// Event is emitted on the controller's event channel.
type Event struct {
	Kind     EventKind
	Side     Side
	Path     string
	Duration time.Duration
	Err      error
}

// Options configure a Controller.
type Options struct {
	OutputPath  string
	MinDuration time.Duration
	InitialSide Side
	EventBuffer int
}

// Snapshot is the observable capture state.
type Snapshot struct {
	State       State  `json:"state"`
	ActiveSide  Side   `json:"active_side"`
	IsRecording bool   `json:"is_recording"`
	OutputPath  string `json:"output_path"`
}

// Controller drives a Session through Idle → Previewing → Recording.
type Controller struct {
	mu        sync.Mutex
	discovery Discovery
	session   Session
	prober    Prober
	log       *zap.Logger

	outputPath  string
	minDuration time.Duration

	side  Side
	input Input
	state State

	events chan Event
}

// NewController creates an idle controller.
func NewController(opts Options, discovery Discovery, session Session, prober Prober, log *zap.Logger) *Controller {
	if opts.MinDuration <= 0 {
		opts.MinDuration = DefaultMinDuration
	}
	if opts.InitialSide == "" {
		opts.InitialSide = Front
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 16
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		discovery:   discovery,
		session:     session,
		prober:      prober,
		log:         log,
		outputPath:  opts.OutputPath,
		minDuration: opts.MinDuration,
		side:        opts.InitialSide,
		state:       StateIdle,
		events:      make(chan Event, opts.EventBuffer),
	}
}

// Events delivers recording outcomes. The channel is never closed.
func (c *Controller) Events() <-chan Event { return c.events }

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:       c.state,
		ActiveSide:  c.side,
		IsRecording: c.state == StateRecording,
		OutputPath:  c.outputPath,
	}
}

// CurrentInput returns the attached device, nil when idle.
func (c *Controller) CurrentInput() Input {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Show attaches the device for the active side and starts the session.
func (c *Controller) Show() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return nil
	}
	if c.input == nil {
		in, err := c.discovery.Device(c.side)
		if err != nil {
			return unavailable(c.side, err)
		}
		if err := c.session.AddInput(in); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrCameraUnavailable, err)
		}
		c.input = in
	}
	if err := c.session.StartRunning(); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	c.state = StatePreviewing
	c.log.Debug("camera: previewing", zap.String("side", string(c.side)))
	return nil
}

// SetSide switches the physical device. Same side is a no-op.
func (c *Controller) SetSide(side Side) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if side == c.side {
		return nil
	}
	if c.state == StateRecording {
		return errs.ErrInvalidState
	}
	if c.input != nil {
		in, err := c.discovery.Device(side)
		if err != nil {
			return unavailable(side, err)
		}
		old := c.input
		c.session.RemoveInput(old)
		if err := c.session.AddInput(in); err != nil {
			// Put the previous device back so the preview keeps running.
			if rerr := c.session.AddInput(old); rerr != nil {
				c.log.Warn("camera: restore input failed", zap.Error(rerr))
				c.input = nil
			}
			return fmt.Errorf("%w: %v", errs.ErrCameraUnavailable, err)
		}
		c.input = in
	}
	c.side = side
	c.emit(Event{Kind: EventSideChanged, Side: side})
	return nil
}

// StartRecording clears the output file and starts writing to it.
// Calling it while already recording does nothing.
func (c *Controller) StartRecording() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateRecording:
		return nil
	case StateIdle:
		return errs.ErrInvalidState
	}
	removeFile(c.outputPath, c.log)
	if err := c.session.StartRecording(c.outputPath); err != nil {
		return fmt.Errorf("start recording: %w", err)
	}
	c.state = StateRecording
	c.log.Info("camera: recording started", zap.String("side", string(c.side)), zap.String("path", c.outputPath))
	return nil
}

// StopRecording finalizes the file and emits Recorded or Discarded, then Stopped.
// It returns the emitted event.
func (c *Controller) StopRecording(ctx context.Context) (Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRecording {
		return Event{}, errs.ErrInvalidState
	}
	c.state = StatePreviewing
	defer c.emit(Event{Kind: EventStopped, Side: c.side})

	if err := c.session.StopRecording(); err != nil {
		return c.fail(fmt.Errorf("stop recording: %w", err))
	}
	d, err := c.prober.Duration(ctx, c.outputPath)
	if err != nil {
		return c.fail(fmt.Errorf("probe recording: %w", err))
	}
	if d < c.minDuration {
		removeFile(c.outputPath, c.log)
		ev := Event{Kind: EventDiscarded, Side: c.side, Duration: d}
		c.log.Info("camera: recording discarded", zap.Duration("duration", d))
		c.emit(ev)
		return ev, nil
	}
	ev := Event{Kind: EventRecorded, Side: c.side, Path: c.outputPath, Duration: d}
	c.log.Info("camera: recording finished", zap.Duration("duration", d), zap.String("path", c.outputPath))
	c.emit(ev)
	return ev, nil
}

// fail drops a partial output file so it is never sent as a recording.
func (c *Controller) fail(err error) (Event, error) {
	removeFile(c.outputPath, c.log)
	ev := Event{Kind: EventFailed, Side: c.side, Err: err}
	c.log.Warn("camera: recording failed", zap.Error(err))
	c.emit(ev)
	return ev, err
}

// Teardown stops the session and detaches the device. Safe to call repeatedly.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateIdle && c.input == nil {
		return
	}
	if c.state == StateRecording {
		if err := c.session.StopRecording(); err != nil {
			c.log.Warn("camera: stop recording on teardown", zap.Error(err))
		}
		removeFile(c.outputPath, c.log)
		c.emit(Event{Kind: EventStopped, Side: c.side})
	}
	c.session.StopRunning()
	if c.input != nil {
		c.session.RemoveInput(c.input)
		c.input = nil
	}
	c.state = StateIdle
	c.log.Debug("camera: torn down")
}

func (c *Controller) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.log.Warn("camera: event buffer full", zap.String("kind", string(ev.Kind)))
	}
}

// unavailable keeps ErrPermissionDenied distinct from missing hardware.
func unavailable(side Side, err error) error {
	if errors.Is(err, errs.ErrPermissionDenied) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", errs.ErrCameraUnavailable, side, err)
}

func removeFile(path string, log *zap.Logger) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("remove recording file failed", zap.String("path", path), zap.Error(err))
	}
}
