// Package similarity reduces frames to small grayscale representations and
// scores them with a structural similarity index.
//
// Reduce downsamples wide images to a fixed comparison width with an
// area-averaging filter; Score computes windowed SSIM over two
// equally-shaped grayscale images. Both are pure functions with no shared
// state.
package similarity
