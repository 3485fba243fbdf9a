package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGeneration marks a single failed generation attempt. Recovered
	// locally by dropping that variation.
	ErrGeneration = errors.New("generation failure")
	// ErrGenerationExhausted marks a curation key for which every variation
	// failed. Surfaced per key; sibling keys keep running.
	ErrGenerationExhausted = errors.New("generation exhausted")
	// ErrEnhancement marks a failed visual enhancement call. Callers fall
	// back to the unenhanced artifact.
	ErrEnhancement = errors.New("enhancement failure")
	// ErrInterpolation marks a failed frame interpolation call. Callers fall
	// back to the original frames.
	ErrInterpolation = errors.New("interpolation failure")
	// ErrTimeout marks a collaborator call that exceeded its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrConfiguration marks invalid or missing configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrExternalTool marks a collaborator binary that failed to run.
	ErrExternalTool = errors.New("external tool error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsRecoverable reports whether the error degrades output quality rather
// than aborting a render. Every collaborator failure is recoverable; only
// configuration errors demand operator attention.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}
	return !errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
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
