package detect

import (
	"image"

	"lectern/internal/media/frames"
	"lectern/internal/similarity"
)

// DetectedSlide is one accepted slide after persistence. Timestamps are
// strictly increasing in emission order across a single run.
type DetectedSlide struct {
	Timestamp  float64
	FrameIndex int
	ImagePath  string
}

// Candidate is a full-resolution frame proposed for emission after a
// detected similarity drop relative to its immediate predecessor.
type Candidate struct {
	Timestamp float64
	Frame     frames.Frame
}

// Detector decides when a new slide has stabilized in the sampled frame
// stream. It holds at most one full-resolution frame and two downscaled
// representations at a time. One instance serves exactly one run; there is
// no reset.
type Detector struct {
	ssimThreshold  float64
	dedupThreshold float64

	tracking      bool
	prevSmall     *image.Gray
	prevFrame     frames.Frame
	prevTimestamp float64
	lastAccepted  *image.Gray
}

// NewDetector builds a detector with the given thresholds. The dedup
// threshold is expected to be at or above the change threshold; the detector
// does not enforce that contract.
func NewDetector(ssimThreshold, dedupThreshold float64) *Detector {
	return &Detector{
		ssimThreshold:  ssimThreshold,
		dedupThreshold: dedupThreshold,
	}
}

// Observe consumes the next sampled frame. When a slide change is accepted
// it returns the candidate to emit: the previous frame, the stable slide
// right before the transition, not the current one. The boolean reports
// whether a candidate was emitted.
//
// A transition whose incoming frame scores at or above the dedup threshold
// against the last accepted candidate is rejected: the stream flickered back
// to a slide that was already captured.
func (d *Detector) Observe(frame frames.Frame) (Candidate, bool, error) {
	small := similarity.Reduce(frame.Gray())

	if !d.tracking {
		d.tracking = true
		d.track(frame, small)
		return Candidate{}, false, nil
	}

	score, err := similarity.Score(d.prevSmall, small)
	if err != nil {
		return Candidate{}, false, err
	}

	var out Candidate
	emitted := false
	if score < d.ssimThreshold {
		accept := true
		if d.lastAccepted != nil {
			dup, err := similarity.Score(d.lastAccepted, small)
			if err != nil {
				return Candidate{}, false, err
			}
			accept = dup < d.dedupThreshold
		}
		if accept {
			out = Candidate{Timestamp: d.prevTimestamp, Frame: d.prevFrame}
			emitted = true
			d.lastAccepted = d.prevSmall
		}
	}

	d.track(frame, small)
	return out, emitted, nil
}

func (d *Detector) track(frame frames.Frame, small *image.Gray) {
	d.prevSmall = small
	d.prevFrame = frame
	d.prevTimestamp = frame.Timestamp
}
