// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/farmdesk/internal/config"
	"github.com/jeranaias/farmdesk/internal/conversation"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitUsageError    = 2
	ExitConfigError   = 3
	ExitNotFoundError = 7
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError describes a failed command action.
type CommandError struct {
	Command string
	Action  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Command, e.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// usageErrorf returns an ErrUsage-wrapping error.
func usageErrorf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, a...))
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	var verr config.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.As(err, &verr):
		return ExitConfigError
	case errors.Is(err, conversation.ErrConversationNotFound):
		return ExitNotFoundError
	default:
		return ExitGeneralError
	}
}
