// Package cards pairs detected slides with transcript windows and keeps the
// resulting study cards in a SQLite database for later review and export.
package cards
