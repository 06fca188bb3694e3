// Package apperr defines the error markers shared by every command.
//
// Commands wrap failures with one of the exported markers so front-ends can
// classify them with errors.Is without parsing messages.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIO            = errors.New("io error")
	ErrParse         = errors.New("parse error")
	ErrNotFound      = errors.New("not found")
	ErrExternalTool  = errors.New("external tool error")
	ErrRemoteService = errors.New("remote service error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap tags err with marker and prefixes operation and message. The marker
// should be one of the exported sentinel errors above; nil means ErrIO.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns the marker err was tagged with, or nil for untagged errors.
func Kind(err error) error {
	for _, marker := range []error{ErrNotFound, ErrParse, ErrConfiguration, ErrRemoteService, ErrExternalTool, ErrIO} {
		if errors.Is(err, marker) {
			return marker
		}
	}
	return nil
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "command failure"
	}
	return strings.Join(parts, ": ")
}
