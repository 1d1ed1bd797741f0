// Package logging centralizes slog construction for the CLI and pipeline.
//
// Console output goes through a tinted handler when stderr is a terminal;
// JSON output is available for machine consumption. A log file under the
// configured log directory receives a copy of everything.
package logging
