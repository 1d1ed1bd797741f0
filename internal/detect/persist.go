package detect

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"lectern/internal/services"
)

// SlidesDirName is the subdirectory of a run's output root that holds the
// slide images.
const SlidesDirName = "slides"

// Persister writes accepted candidates to disk as full-resolution PNG files
// named with a zero-padded sequence number and a one-decimal timestamp, e.g.
// slide_0004_12.3s.png.
type Persister struct {
	dir   string
	count int
}

// NewPersister creates the slides directory under the output root.
func NewPersister(outputRoot string) (*Persister, error) {
	dir := filepath.Join(outputRoot, SlidesDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrPersist, "persist", "mkdir", dir, err)
	}
	return &Persister{dir: dir}, nil
}

// Dir returns the slides directory.
func (p *Persister) Dir() string {
	return p.dir
}

// Save writes one candidate and returns its slide record. The frame index
// is the emission order, 0-based. A write failure is fatal for the run;
// files already written are left in place for the caller to clean up.
func (p *Persister) Save(candidate Candidate) (DetectedSlide, error) {
	name := fmt.Sprintf("slide_%04d_%.1fs.png", p.count, candidate.Timestamp)
	path := filepath.Join(p.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return DetectedSlide{}, services.Wrap(services.ErrPersist, "persist", "create", path, err)
	}
	if err := png.Encode(file, candidate.Frame.Image()); err != nil {
		_ = file.Close()
		return DetectedSlide{}, services.Wrap(services.ErrPersist, "persist", "encode", path, err)
	}
	if err := file.Close(); err != nil {
		return DetectedSlide{}, services.Wrap(services.ErrPersist, "persist", "close", path, err)
	}

	slide := DetectedSlide{
		Timestamp:  candidate.Timestamp,
		FrameIndex: p.count,
		ImagePath:  path,
	}
	p.count++
	return slide, nil
}
