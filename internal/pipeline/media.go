package pipeline

import (
	"context"

	"lectern/internal/media/frames"
)

// SlideStream is a closable sampled frame stream.
type SlideStream interface {
	Next() (frames.Frame, bool)
	Close() error
}

// Media abstracts probing and frame decoding so tests can run the pipeline
// without ffmpeg installed.
type Media interface {
	Probe(ctx context.Context, path string) (frames.Meta, error)
	OpenStream(meta frames.Meta, intervalSeconds float64) (SlideStream, error)
}

type ffmpegMedia struct {
	ffmpegBinary  string
	ffprobeBinary string
}

// NewMedia returns the ffmpeg-backed Media implementation.
func NewMedia(ffmpegBinary, ffprobeBinary string) Media {
	return &ffmpegMedia{ffmpegBinary: ffmpegBinary, ffprobeBinary: ffprobeBinary}
}

func (m *ffmpegMedia) Probe(ctx context.Context, path string) (frames.Meta, error) {
	return frames.Probe(ctx, m.ffprobeBinary, path)
}

func (m *ffmpegMedia) OpenStream(meta frames.Meta, intervalSeconds float64) (SlideStream, error) {
	source, err := frames.Open(m.ffmpegBinary, meta)
	if err != nil {
		return nil, err
	}
	return &sampledStream{
		sampler: frames.NewSampler(source, meta.FPS, intervalSeconds),
		source:  source,
	}, nil
}

type sampledStream struct {
	sampler *frames.Sampler
	source  *frames.Source
}

func (s *sampledStream) Next() (frames.Frame, bool) {
	return s.sampler.Next()
}

func (s *sampledStream) Close() error {
	return s.source.Close()
}
