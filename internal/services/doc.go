// Package services holds shared error classification for external
// collaborators and pipeline stages. Subpackages wrap the individual tools.
package services
