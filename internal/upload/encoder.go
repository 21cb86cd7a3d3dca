package upload

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// FFmpegEncoder re-encodes to H.264/AAC MP4 with the index at the front.
type FFmpegEncoder struct {
	Bin string
	CRF int
}

// Encode writes "<name>-encoded.mp4" next to src.
func (e FFmpegEncoder) Encode(ctx context.Context, src string) (string, error) {
	bin := e.Bin
	if bin == "" {
		bin = "ffmpeg"
	}
	crf := e.CRF
	if crf <= 0 {
		crf = 28
	}
	dst := EncodedPath(src)
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin,
		"-hide_banner",
		"-loglevel", "error",
		"-i", src,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", fmt.Sprint(crf),
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-movflags", "+faststart",
		"-y", dst,
	)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return dst, nil
}

// EncodedPath is where Encode writes its output for src.
func EncodedPath(src string) string {
	ext := filepath.Ext(src)
	return strings.TrimSuffix(src, ext) + "-encoded.mp4"
}
