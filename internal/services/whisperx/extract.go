package whisperx

import (
	"context"
	"os/exec"
	"strings"

	"lectern/internal/services"
)

// buildExtractArgs assembles the ffmpeg invocation that converts the first
// audio stream of a recording into a mono 16kHz WAV file for WhisperX.
func buildExtractArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

// ExtractAudio extracts the first audio stream from a recording. The output
// is a mono 16kHz WAV file suitable for WhisperX.
func ExtractAudio(ctx context.Context, ffmpegBinary, source, dest string) error {
	args := buildExtractArgs(source, dest)
	cmd := exec.CommandContext(ctx, ffmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		return services.Wrap(services.ErrExternalTool, "transcribe", "extract audio", detail, err)
	}
	return nil
}
