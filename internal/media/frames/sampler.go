package frames

import "math"

// Sampler walks a frame stream at a fixed wall-clock interval, skipping
// undecoded frames with the reader's cheap grab primitive. The sequence is
// lazy, finite, and non-restartable: any read or skip failure, including a
// decode error mid-stream, ends it without surfacing an error. Candidates
// gathered before the failure stay valid.
type Sampler struct {
	reader  Reader
	step    int
	started bool
	done    bool
}

// NewSampler computes the frame step for the given interval. A zero or
// unknown fps degrades to sampling every frame.
func NewSampler(reader Reader, fps, intervalSeconds float64) *Sampler {
	step := 1
	if fps > 0 && intervalSeconds > 0 {
		step = int(math.Round(fps * intervalSeconds))
		if step < 1 {
			step = 1
		}
	}
	return &Sampler{reader: reader, step: step}
}

// Step returns the number of source frames between samples.
func (s *Sampler) Step() int {
	return s.step
}

// Next yields the next sampled frame. The second return is false once the
// stream is exhausted or interrupted.
func (s *Sampler) Next() (Frame, bool) {
	if s.done {
		return Frame{}, false
	}
	if s.started {
		for i := 0; i < s.step-1; i++ {
			if err := s.reader.Grab(); err != nil {
				s.done = true
				return Frame{}, false
			}
		}
	}
	s.started = true

	frame, err := s.reader.ReadFrame()
	if err != nil {
		s.done = true
		return Frame{}, false
	}
	return frame, true
}
