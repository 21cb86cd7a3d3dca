// Package upload sends a finished recording to the backend and cleans up the
// local file once the server has accepted it.
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/psds-microservice/citypeople-service/internal/errs"
	"github.com/psds-microservice/citypeople-service/internal/model"
	"go.uber.org/zap"
)

// Uploader posts the multipart request.
type Uploader interface {
	UploadVideo(ctx context.Context, filePath string, friends, groups []int, location string) (model.Success, error)
}

// Encoder re-encodes a recording and returns the path of the new file.
type Encoder interface {
	Encode(ctx context.Context, src string) (string, error)
}

// Pipeline runs one upload per call. It does not guard against overlapping
// calls; callers serialize sends.
type Pipeline struct {
	uploader Uploader
	encoder  Encoder
	log      *zap.Logger
}

// NewPipeline creates a pipeline. encoder may be nil to upload the file as recorded.
func NewPipeline(uploader Uploader, encoder Encoder, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{uploader: uploader, encoder: encoder, log: log}
}

// Send uploads job.LocalFile. On success the local file is deleted; on any
// failure it is left in place so the user can retry.
func (p *Pipeline) Send(ctx context.Context, job model.UploadJob) (model.Success, error) {
	if job.LocalFile == "" {
		return model.Success{}, errs.ErrNoRecording
	}
	if _, err := os.Stat(job.LocalFile); err != nil {
		return model.Success{}, fmt.Errorf("%w: %v", errs.ErrNoRecording, err)
	}

	path := job.LocalFile
	if p.encoder != nil {
		encoded, err := p.encoder.Encode(ctx, job.LocalFile)
		if err != nil {
			return model.Success{}, fmt.Errorf("encode: %w", err)
		}
		if encoded != job.LocalFile {
			defer p.remove(encoded)
		}
		path = encoded
	}

	resp, err := p.uploader.UploadVideo(ctx, path, job.RecipientIDs, job.GroupIDs, job.Location)
	if err != nil {
		p.log.Warn("upload failed, recording kept",
			zap.String("file", job.LocalFile),
			zap.Error(err))
		return resp, err
	}
	p.remove(job.LocalFile)
	p.log.Info("upload done",
		zap.Ints("friends", job.RecipientIDs),
		zap.Ints("groups", job.GroupIDs),
		zap.String("message", resp.Text()))
	return resp, nil
}

// remove is idempotent; failures are only logged.
func (p *Pipeline) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.log.Warn("delete recording failed", zap.String("file", path), zap.Error(err))
	}
}
