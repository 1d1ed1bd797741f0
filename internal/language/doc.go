// Package language normalizes language codes for the transcription service.
//
// WhisperX expects ISO 639-1 codes; configuration accepts 2- or 3-letter
// codes and full English names, plus "auto" for detection.
package language
