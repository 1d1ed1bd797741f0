package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lectern/internal/cards"
	"lectern/internal/config"
	"lectern/internal/media/frames"
	"lectern/internal/progress"
	"lectern/internal/services"
	"lectern/internal/services/whisperx"
	"lectern/internal/transcript"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	root := t.TempDir()
	cfg.Paths.OutputDir = filepath.Join(root, "out")
	cfg.Paths.WorkDir = filepath.Join(root, "work")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Paths.DataDir = filepath.Join(root, "data")
	cfg.Detection.SSIMThreshold = 0.9
	cfg.Detection.DedupThreshold = 0.95
	return &cfg
}

func uniformFrame(index int, timestamp float64, value uint8) frames.Frame {
	const w, h = 32, 24
	pix := make([]byte, w*h*3)
	for i := range pix {
		pix[i] = value
	}
	return frames.Frame{Index: index, Timestamp: timestamp, Width: w, Height: h, Pix: pix}
}

type stubStream struct {
	frames []frames.Frame
	pos    int
	closed bool
}

func (s *stubStream) Next() (frames.Frame, bool) {
	if s.pos >= len(s.frames) {
		return frames.Frame{}, false
	}
	f := s.frames[s.pos]
	s.pos++
	return f, true
}

func (s *stubStream) Close() error {
	s.closed = true
	return nil
}

type stubMedia struct {
	probeErr map[string]error
	values   []uint8
	streams  []*stubStream
}

func (m *stubMedia) Probe(_ context.Context, path string) (frames.Meta, error) {
	if err := m.probeErr[path]; err != nil {
		return frames.Meta{}, err
	}
	return frames.Meta{Path: path, Width: 32, Height: 24, FPS: 1, Duration: float64(len(m.values)) * 2}, nil
}

func (m *stubMedia) OpenStream(_ frames.Meta, _ float64) (SlideStream, error) {
	var seq []frames.Frame
	for i, v := range m.values {
		seq = append(seq, uniformFrame(i, float64(i)*2, v))
	}
	stream := &stubStream{frames: seq}
	m.streams = append(m.streams, stream)
	return stream, nil
}

type stubTranscriber struct {
	segments   []transcript.Segment
	extractErr error
	extracted  []string
}

func (tr *stubTranscriber) ExtractAudio(_ context.Context, _, dest string) error {
	if tr.extractErr != nil {
		return tr.extractErr
	}
	tr.extracted = append(tr.extracted, dest)
	return os.WriteFile(dest, []byte("wav"), 0o644)
}

func (tr *stubTranscriber) Transcribe(_ context.Context, _, _ string) (whisperx.Result, error) {
	return whisperx.Result{Segments: tr.segments, Language: "en"}, nil
}

func lectureSegments() []transcript.Segment {
	return []transcript.Segment{
		{Text: "Welcome to the lecture.", Start: 0, End: 3, Words: []transcript.Word{
			{Text: "Welcome", Start: 0, End: 0.5},
			{Text: "to", Start: 0.6, End: 0.8},
			{Text: "the", Start: 0.9, End: 1.0},
			{Text: "lecture.", Start: 1.1, End: 1.6},
		}},
	}
}

func TestProcessFullRun(t *testing.T) {
	cfg := testConfig(t)
	store, err := cards.Open(cfg.DatabasePath())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	// One slide change: the stable first slide is emitted at the transition.
	media := &stubMedia{values: []uint8{10, 10, 200, 200}}
	transcriber := &stubTranscriber{segments: lectureSegments()}
	worker := New(cfg, nil, WithMedia(media), WithTranscriber(transcriber), WithStore(store))

	results, err := worker.Process(context.Background(), []string{"/videos/cs101_l01.mp4"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	result := results[0]
	if result.Err != nil {
		t.Fatalf("unexpected file error: %v", result.Err)
	}
	if result.Slides != 1 || result.Cards != 1 || result.Segments != 1 {
		t.Fatalf("unexpected counts %+v", result)
	}
	if result.Title != "Cs101 L01" {
		t.Fatalf("unexpected title %q", result.Title)
	}

	slideDir := filepath.Join(result.OutputDir, "slides")
	entries, err := os.ReadDir(slideDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one persisted slide in %s: %v", slideDir, err)
	}
	for _, name := range []string{"transcript.srt", "transcript.txt"} {
		if _, err := os.Stat(filepath.Join(result.OutputDir, name)); err != nil {
			t.Fatalf("expected export %s: %v", name, err)
		}
	}

	stored, err := store.ListCards(context.Background(), result.SessionID)
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored card, got %d", len(stored))
	}
	if stored[0].TranscriptText != "Welcome to the lecture." {
		t.Fatalf("unexpected card text %q", stored[0].TranscriptText)
	}

	if len(media.streams) != 1 || !media.streams[0].closed {
		t.Fatalf("frame stream must be closed after the scan")
	}
	workEntries, err := os.ReadDir(cfg.Paths.WorkDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	for _, entry := range workEntries {
		if entry.IsDir() {
			t.Fatalf("run work dir should be cleaned up, found %s", entry.Name())
		}
	}
}

func TestProcessContinuesAfterFileFailure(t *testing.T) {
	cfg := testConfig(t)
	boom := errors.New("unreadable")
	media := &stubMedia{
		values:   []uint8{10, 10},
		probeErr: map[string]error{"/videos/bad.mp4": boom},
	}
	worker := New(cfg, nil, WithMedia(media), WithTranscriber(&stubTranscriber{}))

	results, err := worker.Process(context.Background(), []string{"/videos/bad.mp4", "/videos/good.mp4"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !errors.Is(results[0].Err, boom) {
		t.Fatalf("expected first file to fail with probe error, got %v", results[0].Err)
	}
	if results[1].Err != nil {
		t.Fatalf("second file must still run: %v", results[1].Err)
	}
}

func TestWorkerLogsFailureCategory(t *testing.T) {
	cfg := testConfig(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	media := &stubMedia{
		probeErr: map[string]error{
			"/videos/missing.mp4": services.Wrap(services.ErrSourceUnavailable, "probe", "inspect", "/videos/missing.mp4", nil),
		},
	}
	worker := New(cfg, logger, WithMedia(media), WithTranscriber(&stubTranscriber{}))

	results, err := worker.Process(context.Background(), []string{"/videos/missing.mp4"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if results[0].Err == nil {
		t.Fatalf("expected the file to fail")
	}
	logged := buf.String()
	if !strings.Contains(logged, `category="source unavailable"`) {
		t.Fatalf("expected the sentinel category in the failure log, got %q", logged)
	}
}

func TestSlidesOnlyCopiesImages(t *testing.T) {
	cfg := testConfig(t)
	media := &stubMedia{values: []uint8{10, 10, 200, 200, 90, 90}}
	worker := New(cfg, nil, WithMedia(media), WithTranscriber(&stubTranscriber{}))

	results, err := worker.Slides(context.Background(), []string{"/videos/algorithms.mp4"})
	if err != nil {
		t.Fatalf("Slides: %v", err)
	}
	result := results[0]
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.Slides != 2 {
		t.Fatalf("expected 2 slides, got %d", result.Slides)
	}

	entries, err := os.ReadDir(result.OutputDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	pngs := 0
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".png" {
			pngs++
		}
	}
	if pngs != 2 {
		t.Fatalf("expected 2 copied images, got %d", pngs)
	}
	if _, err := os.Stat(filepath.Join(result.OutputDir, "transcript.txt")); !os.IsNotExist(err) {
		t.Fatalf("slides-only mode must not write transcripts")
	}
}

func TestTranscribeOnlyWritesExports(t *testing.T) {
	cfg := testConfig(t)
	worker := New(cfg, nil,
		WithMedia(&stubMedia{}),
		WithTranscriber(&stubTranscriber{segments: lectureSegments()}))

	results, err := worker.Transcribe(context.Background(), []string{"/videos/l02.mp4"})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	result := results[0]
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	for _, name := range []string{"transcript.srt", "transcript.txt"} {
		if _, err := os.Stat(filepath.Join(result.OutputDir, name)); err != nil {
			t.Fatalf("expected export %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(result.OutputDir, "slides")); !os.IsNotExist(err) {
		t.Fatalf("transcribe-only mode must not write slides")
	}
}

func TestProcessRefusesConcurrentRun(t *testing.T) {
	cfg := testConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	lock, err := AcquireRunLock(cfg.Paths.WorkDir)
	if err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	defer lock.Release()

	worker := New(cfg, nil, WithMedia(&stubMedia{}), WithTranscriber(&stubTranscriber{}))
	if _, err := worker.Process(context.Background(), []string{"/videos/l01.mp4"}); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
}

func TestProcessStopsBetweenFilesOnCancel(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	worker := New(cfg, nil, WithMedia(&stubMedia{}), WithTranscriber(&stubTranscriber{}))
	results, err := worker.Process(ctx, []string{"/videos/l01.mp4"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("no file may start after cancellation, got %d results", len(results))
	}
}

func TestProcessPublishesProgress(t *testing.T) {
	cfg := testConfig(t)
	reporter := progress.NewChannel(64)
	media := &stubMedia{values: []uint8{10, 10, 200, 200}}
	worker := New(cfg, nil,
		WithMedia(media),
		WithTranscriber(&stubTranscriber{segments: lectureSegments()}),
		WithReporter(reporter))

	if _, err := worker.Process(context.Background(), []string{"/videos/l01.mp4"}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	reporter.Close()

	stages := map[string]bool{}
	for event := range reporter.Events() {
		stages[event.Stage] = true
	}
	for _, stage := range []string{"transcribe", "detect", "match"} {
		if !stages[stage] {
			t.Fatalf("expected progress events for stage %q, got %v", stage, stages)
		}
	}
}
