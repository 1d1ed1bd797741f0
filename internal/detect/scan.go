package detect

import (
	"lectern/internal/media/frames"
)

// Stream is the sampled frame sequence the scan consumes.
type Stream interface {
	Next() (frames.Frame, bool)
}

// ProgressFunc receives scan progress as an integer percentage of elapsed
// duration. It is called only when the percentage changes.
type ProgressFunc func(pct int)

// Scan drives the detector over a sampled frame stream, handing each
// accepted candidate to sink as it is emitted so at most one candidate
// frame is held beyond the detector's own state. A sink error aborts the
// scan immediately; stream exhaustion ends it normally. The scan itself is
// not cancellable: once started it runs to completion.
func Scan(stream Stream, detector *Detector, durationSeconds float64, sink func(Candidate) error, progress ProgressFunc) error {
	lastPct := -1
	for {
		frame, ok := stream.Next()
		if !ok {
			return nil
		}

		candidate, emitted, err := detector.Observe(frame)
		if err != nil {
			return err
		}
		if emitted {
			if err := sink(candidate); err != nil {
				return err
			}
		}

		if progress != nil && durationSeconds > 0 {
			pct := int(frame.Timestamp / durationSeconds * 100)
			if pct > 100 {
				pct = 100
			}
			if pct != lastPct {
				progress(pct)
				lastPct = pct
			}
		}
	}
}
