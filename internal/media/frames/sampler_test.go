package frames

import (
	"errors"
	"io"
	"testing"
)

// stubReader yields a fixed number of frames and records grab/read calls.
type stubReader struct {
	total int
	index int
	grabs int
	reads int
	fps   float64
	fail  int // fail reads at this absolute frame index (-1 to disable)
}

func newStubReader(total int, fps float64) *stubReader {
	return &stubReader{total: total, fps: fps, fail: -1}
}

func (r *stubReader) Grab() error {
	if r.index >= r.total {
		return io.EOF
	}
	r.index++
	r.grabs++
	return nil
}

func (r *stubReader) ReadFrame() (Frame, error) {
	if r.fail >= 0 && r.index >= r.fail {
		return Frame{}, errors.New("decode interrupted")
	}
	if r.index >= r.total {
		return Frame{}, io.EOF
	}
	frame := Frame{Index: r.index, Width: 2, Height: 2, Pix: make([]byte, 12)}
	if r.fps > 0 {
		frame.Timestamp = float64(r.index) / r.fps
	}
	r.index++
	r.reads++
	return frame, nil
}

func TestSamplerStep(t *testing.T) {
	cases := []struct {
		fps      float64
		interval float64
		want     int
	}{
		{30, 2.0, 60},
		{29.97, 2.0, 60},
		{30, 0.01, 1},
		{0, 2.0, 1},
		{25, 1.0, 25},
	}
	for _, tc := range cases {
		s := NewSampler(newStubReader(0, tc.fps), tc.fps, tc.interval)
		if s.Step() != tc.want {
			t.Fatalf("step for fps=%v interval=%v: got %d, want %d", tc.fps, tc.interval, s.Step(), tc.want)
		}
	}
}

func TestSamplerSkipsBetweenSamples(t *testing.T) {
	reader := newStubReader(300, 30)
	sampler := NewSampler(reader, 30, 2.0) // step 60

	var timestamps []float64
	for {
		frame, ok := sampler.Next()
		if !ok {
			break
		}
		timestamps = append(timestamps, frame.Timestamp)
	}

	want := []float64{0, 2, 4, 6, 8}
	if len(timestamps) != len(want) {
		t.Fatalf("expected %d samples, got %d (%v)", len(want), len(timestamps), timestamps)
	}
	for i, ts := range want {
		if timestamps[i] != ts {
			t.Fatalf("sample %d: expected timestamp %v, got %v", i, ts, timestamps[i])
		}
	}
	if reader.reads != 5 {
		t.Fatalf("expected 5 full reads, got %d", reader.reads)
	}
	if reader.grabs != 4*59 {
		t.Fatalf("expected %d grabs, got %d", 4*59, reader.grabs)
	}
}

func TestSamplerEmptyStream(t *testing.T) {
	sampler := NewSampler(newStubReader(0, 30), 30, 2.0)
	if _, ok := sampler.Next(); ok {
		t.Fatalf("expected no samples from empty stream")
	}
}

func TestSamplerDecodeInterruptionEndsQuietly(t *testing.T) {
	reader := newStubReader(300, 30)
	reader.fail = 120
	sampler := NewSampler(reader, 30, 2.0)

	count := 0
	for {
		if _, ok := sampler.Next(); !ok {
			break
		}
		count++
	}
	if count != 2 {
		t.Fatalf("expected 2 samples before interruption, got %d", count)
	}
	// Exhausted samplers stay exhausted.
	if _, ok := sampler.Next(); ok {
		t.Fatalf("expected sampler to remain done")
	}
}
