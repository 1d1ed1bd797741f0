// Package whisperx wraps audio extraction and WhisperX transcription for
// lecture recordings.
//
// This package handles:
//   - Audio extraction to a WhisperX-friendly WAV file
//   - WhisperX invocation through uvx
//   - Loading word-aligned segments from the JSON output
//
// Configuration options (model, language, CUDA, VAD method) are passed via
// Config.
package whisperx
