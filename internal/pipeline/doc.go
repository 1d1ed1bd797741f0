// Package pipeline orchestrates the per-recording flow: probe, audio
// extraction, transcription, slide detection, slide/transcript matching,
// transcript export, and session storage.
//
// Files are processed strictly one at a time under a cross-process run
// lock. A failure in one file is recorded in its FileResult and the worker
// moves on; cancellation is only observed between stages and files.
package pipeline
