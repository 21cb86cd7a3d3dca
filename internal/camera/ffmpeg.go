package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/psds-microservice/citypeople-service/internal/errs"
	"go.uber.org/zap"
)

// V4L2Discovery maps each side to a video4linux device node.
type V4L2Discovery struct {
	Devices map[Side]string
}

// Device checks that the node for side exists and can be opened.
func (d V4L2Discovery) Device(side Side) (Input, error) {
	path := d.Devices[side]
	if path == "" {
		return nil, fmt.Errorf("no device configured for %s camera", side)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", errs.ErrPermissionDenied, path)
		}
		return nil, err
	}
	_ = f.Close()
	return &DeviceInput{side: side, Path: path}, nil
}

// DeviceInput is a v4l2 device node.
type DeviceInput struct {
	side Side
	Path string
}

func (d *DeviceInput) Side() Side { return d.side }

// FFmpegSession records from the attached device with an ffmpeg child process.
type FFmpegSession struct {
	bin         string
	stopTimeout time.Duration
	log         *zap.Logger

	mu      sync.Mutex
	input   *DeviceInput
	running bool
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	done    chan error
}

// NewFFmpegSession creates a session that runs bin (usually "ffmpeg").
func NewFFmpegSession(bin string, log *zap.Logger) *FFmpegSession {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &FFmpegSession{bin: bin, stopTimeout: 10 * time.Second, log: log}
}

func (s *FFmpegSession) AddInput(in Input) error {
	dev, ok := in.(*DeviceInput)
	if !ok {
		return fmt.Errorf("unsupported input %T", in)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.input != nil {
		return errors.New("session already has an input")
	}
	s.input = dev
	return nil
}

func (s *FFmpegSession) RemoveInput(in Input) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dev, ok := in.(*DeviceInput); ok && dev == s.input {
		s.input = nil
	}
}

// StartRunning marks the session live; ffmpeg has no separate preview pipeline.
func (s *FFmpegSession) StartRunning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.input == nil {
		return errors.New("no input attached")
	}
	s.running = true
	return nil
}

func (s *FFmpegSession) StopRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *FFmpegSession) StartRecording(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.input == nil {
		return errors.New("session is not running")
	}
	if s.cmd != nil {
		return errors.New("already recording")
	}
	cmd := exec.Command(s.bin,
		"-hide_banner",
		"-loglevel", "error",
		"-f", "v4l2",
		"-i", s.input.Path,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"-y", path,
	)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	s.cmd, s.stdin, s.done = cmd, stdin, done
	s.log.Debug("ffmpeg: recording", zap.String("device", s.input.Path), zap.Int("pid", cmd.Process.Pid))
	return nil
}

// StopRecording asks ffmpeg to finish the file ("q" on stdin) and waits.
func (s *FFmpegSession) StopRecording() error {
	s.mu.Lock()
	cmd, stdin, done := s.cmd, s.stdin, s.done
	s.cmd, s.stdin, s.done = nil, nil, nil
	s.mu.Unlock()
	if cmd == nil {
		return errors.New("not recording")
	}
	_, _ = io.WriteString(stdin, "q")
	_ = stdin.Close()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("ffmpeg: %w", err)
		}
		return nil
	case <-time.After(s.stopTimeout):
		_ = cmd.Process.Kill()
		<-done
		return errors.New("ffmpeg did not stop in time")
	}
}

// FFProbe reads container duration with ffprobe.
type FFProbe struct {
	Bin string
}

func (p FFProbe) Duration(ctx context.Context, path string) (time.Duration, error) {
	bin := p.Bin
	if bin == "" {
		bin = "ffprobe"
	}
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, bin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}
	return ParseSeconds(out.String())
}

// ParseSeconds converts ffprobe's "12.345000" to a Duration.
func ParseSeconds(s string) (time.Duration, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
