package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"lectern/internal/cards"
	"lectern/internal/config"
	"lectern/internal/detect"
	"lectern/internal/fileutil"
	"lectern/internal/logging"
	"lectern/internal/media/frames"
	"lectern/internal/progress"
	"lectern/internal/services"
	"lectern/internal/services/whisperx"
	"lectern/internal/transcript"
)

// Transcriber produces transcript segments for a recording's audio.
// *whisperx.Service is the production implementation.
type Transcriber interface {
	ExtractAudio(ctx context.Context, source, dest string) error
	Transcribe(ctx context.Context, source, outputDir string) (whisperx.Result, error)
}

// FileResult records the outcome of one input file. A failed file carries
// its error; the worker keeps going with the next file.
type FileResult struct {
	Source    string
	SessionID string
	Title     string
	OutputDir string
	Slides    int
	Segments  int
	Cards     int
	Err       error
}

// Worker runs recordings through the pipeline strictly sequentially. Runs
// are serialized process-wide through the run lock; cancellation is honored
// between stages and between files, never inside a frame scan.
type Worker struct {
	cfg         *config.Config
	logger      *slog.Logger
	reporter    progress.Reporter
	media       Media
	transcriber Transcriber
	store       *cards.Store
}

// Option customizes a Worker.
type Option func(*Worker)

// WithMedia overrides the frame decoding backend.
func WithMedia(media Media) Option {
	return func(w *Worker) {
		if media != nil {
			w.media = media
		}
	}
}

// WithTranscriber overrides the transcription backend.
func WithTranscriber(transcriber Transcriber) Option {
	return func(w *Worker) {
		if transcriber != nil {
			w.transcriber = transcriber
		}
	}
}

// WithReporter sets the progress reporter.
func WithReporter(reporter progress.Reporter) Option {
	return func(w *Worker) {
		if reporter != nil {
			w.reporter = reporter
		}
	}
}

// WithStore attaches the review card store. Without one, sessions are not
// recorded.
func WithStore(store *cards.Store) Option {
	return func(w *Worker) {
		w.store = store
	}
}

// New builds a Worker for the given configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Worker {
	if logger == nil {
		logger = logging.Discard()
	}
	worker := &Worker{
		cfg:      cfg,
		logger:   logger,
		reporter: progress.Nop{},
		media:    NewMedia(cfg.Tools.FFmpeg, cfg.Tools.FFprobe),
		transcriber: whisperx.NewService(whisperx.Config{
			Model:       cfg.Transcription.Model,
			Language:    cfg.Transcription.Language,
			CUDAEnabled: cfg.Transcription.CUDAEnabled,
			VADMethod:   cfg.Transcription.VADMethod,
			HFToken:     cfg.Transcription.HFToken,
		}, cfg.Tools.FFmpeg, cfg.Tools.UVX),
	}
	for _, opt := range opts {
		opt(worker)
	}
	return worker
}

// Process runs the full pipeline over each source: transcription, slide
// detection, matching, export, and session storage. The returned error is
// non-nil only for run-level failures (lock, directories, cancellation);
// per-file failures live in the results.
func (w *Worker) Process(ctx context.Context, sources []string) ([]FileResult, error) {
	return w.forEach(ctx, sources, w.processOne)
}

// Slides runs detection only, leaving the slide images in a directory named
// after each recording.
func (w *Worker) Slides(ctx context.Context, sources []string) ([]FileResult, error) {
	return w.forEach(ctx, sources, w.slidesOne)
}

// Transcribe runs transcription only and writes the configured transcript
// exports next to nothing else.
func (w *Worker) Transcribe(ctx context.Context, sources []string) ([]FileResult, error) {
	return w.forEach(ctx, sources, w.transcribeOne)
}

func (w *Worker) forEach(ctx context.Context, sources []string, run func(context.Context, string) FileResult) ([]FileResult, error) {
	if err := w.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	lock, err := AcquireRunLock(w.cfg.Paths.WorkDir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release() }()

	results := make([]FileResult, 0, len(sources))
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := run(ctx, source)
		if result.Err != nil {
			attrs := []any{logging.String("source", source), logging.Error(result.Err)}
			if marker := services.Marker(result.Err); marker != nil {
				attrs = append(attrs, logging.String("category", marker.Error()))
			}
			w.logger.Error("file failed", attrs...)
		} else {
			w.logger.Info("file done",
				logging.String("source", source),
				logging.Int("slides", result.Slides),
				logging.Int("cards", result.Cards))
		}
		results = append(results, result)
	}
	return results, nil
}

func (w *Worker) processOne(ctx context.Context, source string) FileResult {
	result := FileResult{Source: source, SessionID: uuid.NewString(), Title: cards.DeriveTitle(source)}

	meta, err := w.media.Probe(ctx, source)
	if err != nil {
		result.Err = err
		return result
	}

	result.OutputDir = w.outputDirFor(source)
	if err := os.MkdirAll(result.OutputDir, 0o755); err != nil {
		result.Err = services.Wrap(services.ErrPersist, "setup", "mkdir", result.OutputDir, err)
		return result
	}
	workDir := filepath.Join(w.cfg.Paths.WorkDir, "run-"+result.SessionID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		result.Err = services.Wrap(services.ErrPersist, "setup", "mkdir", workDir, err)
		return result
	}

	segments, language, err := w.transcribeStage(ctx, source, workDir)
	if err != nil {
		result.Err = err
		return result
	}
	result.Segments = len(segments)

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	slides, err := w.detectStage(source, meta, result.OutputDir)
	if err != nil {
		result.Err = err
		return result
	}
	result.Slides = len(slides)

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	w.publish(source, "match", "pairing slides with transcript", -1)
	pairs := cards.Match(slides, transcript.Flatten(segments), cards.MatchOptions{
		WindowSeconds:     w.cfg.Matching.WindowSeconds,
		PreContextSeconds: w.cfg.Matching.PreContextSeconds,
	})
	result.Cards = len(pairs)

	if err := w.writeExports(result.OutputDir, segments); err != nil {
		result.Err = err
		return result
	}

	if w.store != nil {
		session := cards.Session{
			ID:         result.SessionID,
			Title:      result.Title,
			SourcePath: source,
			OutputDir:  result.OutputDir,
			Language:   language,
		}
		if err := w.store.SaveSession(ctx, session, pairs); err != nil {
			result.Err = services.Wrap(services.ErrPersist, "store", "save session", result.SessionID, err)
			return result
		}
	}

	_ = os.RemoveAll(workDir)
	return result
}

func (w *Worker) slidesOne(ctx context.Context, source string) FileResult {
	result := FileResult{Source: source, SessionID: uuid.NewString(), Title: cards.DeriveTitle(source)}

	meta, err := w.media.Probe(ctx, source)
	if err != nil {
		result.Err = err
		return result
	}

	workDir := filepath.Join(w.cfg.Paths.WorkDir, "run-"+result.SessionID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		result.Err = services.Wrap(services.ErrPersist, "setup", "mkdir", workDir, err)
		return result
	}

	slides, err := w.detectStage(source, meta, workDir)
	if err != nil {
		result.Err = err
		return result
	}
	result.Slides = len(slides)

	result.OutputDir = w.outputDirFor(source)
	if err := os.MkdirAll(result.OutputDir, 0o755); err != nil {
		result.Err = services.Wrap(services.ErrPersist, "persist", "mkdir", result.OutputDir, err)
		return result
	}
	for _, slide := range slides {
		dest := filepath.Join(result.OutputDir, filepath.Base(slide.ImagePath))
		if err := fileutil.CopyFile(slide.ImagePath, dest); err != nil {
			result.Err = services.Wrap(services.ErrPersist, "persist", "copy slide", dest, err)
			return result
		}
	}

	_ = os.RemoveAll(workDir)
	return result
}

func (w *Worker) transcribeOne(ctx context.Context, source string) FileResult {
	result := FileResult{Source: source, SessionID: uuid.NewString(), Title: cards.DeriveTitle(source)}

	workDir := filepath.Join(w.cfg.Paths.WorkDir, "run-"+result.SessionID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		result.Err = services.Wrap(services.ErrPersist, "setup", "mkdir", workDir, err)
		return result
	}

	segments, _, err := w.transcribeStage(ctx, source, workDir)
	if err != nil {
		result.Err = err
		return result
	}
	result.Segments = len(segments)

	result.OutputDir = w.outputDirFor(source)
	if err := os.MkdirAll(result.OutputDir, 0o755); err != nil {
		result.Err = services.Wrap(services.ErrPersist, "persist", "mkdir", result.OutputDir, err)
		return result
	}
	if err := w.writeExports(result.OutputDir, segments); err != nil {
		result.Err = err
		return result
	}

	_ = os.RemoveAll(workDir)
	return result
}

func (w *Worker) transcribeStage(ctx context.Context, source, workDir string) ([]transcript.Segment, string, error) {
	w.publish(source, "transcribe", "extracting audio", -1)
	audioPath := filepath.Join(workDir, "audio.wav")
	if err := w.transcriber.ExtractAudio(ctx, source, audioPath); err != nil {
		return nil, "", err
	}

	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	w.publish(source, "transcribe", "running speech recognition", -1)
	transcribed, err := w.transcriber.Transcribe(ctx, audioPath, workDir)
	if err != nil {
		return nil, "", err
	}
	return transcribed.Segments, transcribed.Language, nil
}

// detectStage scans the sampled frame stream and persists accepted slides
// under outputRoot. The scan runs to completion once started.
func (w *Worker) detectStage(source string, meta frames.Meta, outputRoot string) ([]detect.DetectedSlide, error) {
	w.publish(source, "detect", "scanning for slide changes", 0)

	stream, err := w.media.OpenStream(meta, w.cfg.Detection.FrameInterval)
	if err != nil {
		return nil, err
	}
	defer func() { _ = stream.Close() }()

	persister, err := detect.NewPersister(outputRoot)
	if err != nil {
		return nil, err
	}

	detector := detect.NewDetector(w.cfg.Detection.SSIMThreshold, w.cfg.Detection.DedupThreshold)
	var slides []detect.DetectedSlide
	sink := func(candidate detect.Candidate) error {
		slide, err := persister.Save(candidate)
		if err != nil {
			return err
		}
		slides = append(slides, slide)
		return nil
	}
	onProgress := func(pct int) {
		w.publish(source, "detect", "scanning for slide changes", pct)
	}
	if err := detect.Scan(stream, detector, meta.Duration, sink, onProgress); err != nil {
		return nil, err
	}
	return slides, nil
}

func (w *Worker) writeExports(outputDir string, segments []transcript.Segment) error {
	if w.cfg.Export.SRT {
		path := filepath.Join(outputDir, "transcript.srt")
		if err := os.WriteFile(path, []byte(transcript.FormatSRT(segments)), 0o644); err != nil {
			return services.Wrap(services.ErrPersist, "export", "write srt", path, err)
		}
	}
	if w.cfg.Export.TXT {
		path := filepath.Join(outputDir, "transcript.txt")
		if err := os.WriteFile(path, []byte(transcript.FormatText(segments)), 0o644); err != nil {
			return services.Wrap(services.ErrPersist, "export", "write txt", path, err)
		}
	}
	return nil
}

func (w *Worker) outputDirFor(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if strings.TrimSpace(base) == "" {
		base = "recording"
	}
	return filepath.Join(w.cfg.Paths.OutputDir, base)
}

func (w *Worker) publish(source, stage, message string, pct int) {
	w.reporter.Publish(progress.Event{Source: source, Stage: stage, Message: message, Percent: pct})
}
