package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrBuild        = errors.New("build failure")
	ErrBackup       = errors.New("backup failure")
	ErrSecurity     = errors.New("security violation")
	ErrPublish      = errors.New("publish failure")
	ErrExternalTool = errors.New("external tool error")
	ErrTransient    = errors.New("transient failure")
)

// Wrap builds an error message that includes pipeline context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, state, operation, message string, err error) error {
	detail := buildDetail(state, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a pipeline error to the stable per-failure-class process exit
// code reported by the CLI.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrValidation):
		return 2
	case errors.Is(err, ErrBuild):
		return 3
	case errors.Is(err, ErrBackup):
		return 4
	case errors.Is(err, ErrSecurity):
		return 5
	case errors.Is(err, ErrPublish):
		return 6
	default:
		return 1
	}
}

// Details strips the sentinel prefix from a wrapped error for display.
func Details(err error) string {
	if err == nil {
		return ""
	}
	message := err.Error()
	for _, marker := range []error{
		ErrValidation, ErrBuild, ErrBackup, ErrSecurity, ErrPublish, ErrExternalTool, ErrTransient,
	} {
		prefix := marker.Error() + ": "
		if strings.HasPrefix(message, prefix) {
			return strings.TrimPrefix(message, prefix)
		}
	}
	return message
}

func buildDetail(state, operation, message string) string {
	parts := make([]string, 0, 3)
	if state = strings.TrimSpace(state); state != "" {
		parts = append(parts, state)
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
