package whisperx

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	langpkg "lectern/internal/language"
	"lectern/internal/services"
	"lectern/internal/transcript"
)

// Service invokes WhisperX through uvx to transcribe extracted lecture audio.
type Service struct {
	cfg           Config
	ffmpegBinary  string
	uvxBinary     string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config, ffmpegBinary, uvxBinary string) *Service {
	if ffmpegBinary == "" {
		ffmpegBinary = FFmpegCommand
	}
	if uvxBinary == "" {
		uvxBinary = UVXCommand
	}
	return &Service{
		cfg:          cfg,
		ffmpegBinary: ffmpegBinary,
		uvxBinary:    uvxBinary,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// ExtractAudio extracts the first audio stream from a recording into a mono
// 16kHz WAV file. It uses the service's command runner if configured.
func (s *Service) ExtractAudio(ctx context.Context, source, dest string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, s.ffmpegBinary, buildExtractArgs(source, dest)...)
	}
	return ExtractAudio(ctx, s.ffmpegBinary, source, dest)
}

// Result describes one completed transcription.
type Result struct {
	// Segments are the transcribed utterances in time order.
	Segments []transcript.Segment
	// JSONPath is the WhisperX output file the segments were loaded from.
	JSONPath string
	// Language is the language WhisperX reported, when available.
	Language string
}

// Transcribe runs WhisperX over an extracted WAV file and loads the
// resulting segments. outputDir is where WhisperX writes its output files;
// it defaults to the source's directory.
func (s *Service) Transcribe(ctx context.Context, source, outputDir string) (Result, error) {
	var result Result

	if strings.TrimSpace(source) == "" {
		return result, services.Wrap(services.ErrInvalidInput, "transcribe", "whisperx", "source path required", nil)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, services.Wrap(services.ErrPersist, "transcribe", "ensure output dir", outputDir, err)
	}

	if err := s.run(ctx, s.uvxBinary, s.buildArgs(source, outputDir)...); err != nil {
		return result, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "transcription run failed", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	result.JSONPath = filepath.Join(outputDir, baseName+".json")

	payload, err := loadPayload(result.JSONPath)
	if err != nil {
		return result, services.Wrap(services.ErrExternalTool, "transcribe", "load output", result.JSONPath, err)
	}
	result.Segments = payload.Segments
	result.Language = payload.Language
	return result, nil
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking
	// WhisperX/pyannote. Force legacy behavior so checkpoints still load.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir string) []string {
	args := make([]string, 0, 24)

	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	model := s.cfg.Model
	if model == "" {
		model = DefaultModel
	}

	args = append(args,
		"whisperx",
		source,
		"--model", model,
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--segment_resolution", SegmentResolution,
		"--chunk_size", ChunkSize,
	)

	vadMethod := s.cfg.VADMethod
	if vadMethod == "" {
		vadMethod = VADMethodSilero
	}
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}

	if lang := langpkg.ToISO2(s.cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}

	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}

	return args
}

// payload is the JSON structure WhisperX writes.
type payload struct {
	Segments []transcript.Segment `json:"segments"`
	Language string               `json:"language"`
}

func loadPayload(jsonPath string) (payload, error) {
	var out payload
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parse whisperx json: %w", err)
	}
	return out, nil
}
