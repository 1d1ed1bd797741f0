// Package preflight provides readiness checks for the filesystem paths and
// external binaries a pipeline run depends on.
//
// The process command runs these before touching any input so a doomed run
// fails in seconds instead of after a long transcription.
package preflight
