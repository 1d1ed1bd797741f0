// Package detect turns a sampled frame stream into accepted slide records.
//
// The Detector is a small state machine comparing each sampled frame against
// its predecessor with SSIM; on a similarity drop it proposes the previous
// frame, the stable slide right before the transition, and a duplicate
// check against the last accepted candidate suppresses flicker back to a
// slide that was already captured. Scan drives a Detector over a stream and
// the Persister writes accepted candidates as numbered PNG files.
package detect
