// Package transcript holds the transcription data model shared by the
// recognition service, the matcher, and the exporters.
package transcript
