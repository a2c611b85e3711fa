package cli

import (
	"errors"
	"fmt"

	"mercator-hq/querygate/pkg/gateway"
	"mercator-hq/querygate/pkg/odata"
)

// Exit codes returned by the querygate command.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitConfig   = 2
	ExitRejected = 3
	ExitNotFound = 4
)

// ConfigError represents an error in configuration or command flags.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps err to a process exit code. Scripts can tell a rejected
// query (3) from an unmatched URI (4) without parsing output.
func ExitCode(err error) int {
	var cfgErr *ConfigError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &cfgErr):
		return ExitConfig
	case errors.Is(err, gateway.ErrResourceNotFound):
		return ExitNotFound
	case odata.IsClientError(err):
		return ExitRejected
	default:
		return ExitError
	}
}
