package frames

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"lectern/internal/media/ffprobe"
	"lectern/internal/services"
)

// Meta describes the video properties the sampler needs.
type Meta struct {
	Path        string
	Width       int
	Height      int
	FPS         float64
	TotalFrames int
	Duration    float64
}

// Probe inspects a video file and returns its sampling metadata. A file that
// cannot be inspected, or that carries no video stream, is reported as
// unavailable.
func Probe(ctx context.Context, ffprobeBinary, path string) (Meta, error) {
	result, err := ffprobe.Inspect(ctx, ffprobeBinary, path)
	if err != nil {
		return Meta{}, services.Wrap(services.ErrSourceUnavailable, "probe", "inspect", fmt.Sprintf("cannot open video %s", path), err)
	}
	stream, ok := result.VideoStream()
	if !ok {
		return Meta{}, services.Wrap(services.ErrSourceUnavailable, "probe", "inspect", fmt.Sprintf("no video stream in %s", path), nil)
	}
	if stream.Width <= 0 || stream.Height <= 0 {
		return Meta{}, services.Wrap(services.ErrSourceUnavailable, "probe", "inspect", fmt.Sprintf("video stream reports %dx%d", stream.Width, stream.Height), nil)
	}

	meta := Meta{
		Path:        path,
		Width:       stream.Width,
		Height:      stream.Height,
		FPS:         stream.FPS(),
		TotalFrames: stream.FrameCount(),
		Duration:    result.DurationSeconds(),
	}
	if meta.TotalFrames == 0 && meta.FPS > 0 && meta.Duration > 0 {
		meta.TotalFrames = int(meta.Duration * meta.FPS)
	}
	return meta, nil
}

// Reader is the frame stream contract the sampler consumes. Grab discards the
// next frame without conversion; ReadFrame decodes it. Both report io.EOF or
// any other error when the stream ends.
type Reader interface {
	Grab() error
	ReadFrame() (Frame, error)
}

// Source streams decoded frames from an ffmpeg rawvideo pipe.
type Source struct {
	meta      Meta
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	reader    *bufio.Reader
	stderr    bytes.Buffer
	frameSize int
	index     int
	closed    bool
}

// Open starts the decode subprocess for the probed video. The subprocess is
// deliberately not bound to a context: an in-progress scan runs to completion
// once started, and Close tears the pipe down.
func Open(ffmpegBinary string, meta Meta) (*Source, error) {
	binary := strings.TrimSpace(ffmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	cmd := exec.Command(binary,
		"-v", "error",
		"-hide_banner",
		"-i", meta.Path,
		"-map", "0:v:0",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	)

	src := &Source{
		meta:      meta,
		cmd:       cmd,
		frameSize: meta.Width * meta.Height * 3,
	}
	cmd.Stderr = &src.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "decode", "pipe", "", err)
	}
	src.stdout = stdout
	src.reader = bufio.NewReaderSize(stdout, 1<<20)

	if err := cmd.Start(); err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "decode", "start", fmt.Sprintf("cannot start %s", binary), err)
	}
	return src, nil
}

// Grab discards the next frame's bytes without building a Frame. This is the
// cheap skip primitive between sampled frames.
func (s *Source) Grab() error {
	_, err := s.reader.Discard(s.frameSize)
	if err != nil {
		return err
	}
	s.index++
	return nil
}

// ReadFrame decodes the next frame into an owned buffer.
func (s *Source) ReadFrame() (Frame, error) {
	buf := make([]byte, s.frameSize)
	if _, err := io.ReadFull(s.reader, buf); err != nil {
		return Frame{}, err
	}
	frame := Frame{
		Index:  s.index,
		Width:  s.meta.Width,
		Height: s.meta.Height,
		Pix:    buf,
	}
	if s.meta.FPS > 0 {
		frame.Timestamp = float64(s.index) / s.meta.FPS
	}
	s.index++
	return frame, nil
}

// Close tears down the decode subprocess. Safe to call after end of stream.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.stdout.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
	return nil
}
