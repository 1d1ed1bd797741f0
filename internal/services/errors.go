package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceUnavailable marks a video that cannot be opened at all.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrExternalTool marks a subprocess collaborator failure.
	ErrExternalTool = errors.New("external tool error")
	// ErrPersist marks a failed write of pipeline output.
	ErrPersist = errors.New("persist failure")
	// ErrInvalidInput marks malformed input handed to a pure component.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConfiguration marks unusable settings discovered at run time.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Marker extracts the sentinel an error was tagged with, or nil.
func Marker(err error) error {
	for _, sentinel := range []error{
		ErrSourceUnavailable, ErrExternalTool, ErrPersist, ErrInvalidInput, ErrConfiguration,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
