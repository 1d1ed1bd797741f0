// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no lectern-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns a parsed Result
//
// Helper methods on Result and Stream provide convenient access to the
// video stream, frame rate, frame count, and duration.
package ffprobe
