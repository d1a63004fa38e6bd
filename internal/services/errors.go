package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers classify pipeline failures. Only ErrSetup is allowed to
// reach process exit; everything else is contained inside one event's
// handling.
var (
	ErrSetup          = errors.New("setup error")
	ErrConfiguration  = errors.New("configuration error")
	ErrValidation     = errors.New("validation error")
	ErrTransient      = errors.New("transient failure")
	ErrDateResolution = errors.New("date resolution failure")
	ErrMove           = errors.New("move error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error should stop the daemon before the watch
// loop starts.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSetup)
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
