// Package frames streams decoded video frames from an ffmpeg rawvideo pipe
// and samples them at a fixed wall-clock interval.
//
// The Source exposes two primitives mirroring what frame decoders offer:
// Grab discards the next frame's bytes without any conversion, and ReadFrame
// decodes one into an owned RGB buffer. The Sampler uses Grab to skip the
// frames between samples, which keeps a scan cheap at typical lecture frame
// rates.
package frames
