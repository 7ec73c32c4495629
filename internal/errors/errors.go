package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// CommandError represents an external command failure
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// SignInError means no 1Password session exists and no sign-in path
// was available (non-interactive run, or sign-in itself failed).
type SignInError struct {
	Account string
	Err     error
}

func (e SignInError) Error() string {
	msg := "1Password sign-in failed"
	if e.Account != "" {
		msg += fmt.Sprintf(" for account '%s'", e.Account)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	msg += "\n  💡 Run 'op signin' and try again"
	return msg
}

func (e SignInError) Unwrap() error {
	return e.Err
}

// RetrievalError means the secrets item could not be fetched or parsed.
type RetrievalError struct {
	Vault string
	Item  string
	Err   error
}

func (e RetrievalError) Error() string {
	msg := fmt.Sprintf("failed to retrieve item '%s' from vault '%s'", e.Item, e.Vault)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e RetrievalError) Unwrap() error {
	return e.Err
}

// NotFoundError means the item was fetched but the requested field is absent.
type NotFoundError struct {
	Item  string
	Field string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("field '%s' not found in item '%s'", e.Field, e.Item)
}

// ImportError means gpg rejected the key material. Stderr carries the
// tool's status stream for diagnosis.
type ImportError struct {
	Stderr string
	Err    error
}

func (e ImportError) Error() string {
	msg := "gpg key import failed"
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e ImportError) Unwrap() error {
	return e.Err
}

// IdentificationError means no identifier could be derived for the key
// by any strategy. Callers treat this as non-fatal: the import step can
// proceed without an identifier, at the cost of the ahead-of-time
// already-imported check.
type IdentificationError struct {
	Err error
}

func (e IdentificationError) Error() string {
	msg := "could not derive an identifier for the key"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e IdentificationError) Unwrap() error {
	return e.Err
}

// WrapCommandNotFound wraps command not found errors with helpful suggestions
func WrapCommandNotFound(command string, err error) error {
	suggestions := map[string]string{
		"brew": "Install Homebrew from https://brew.sh/",
		"op":   "Install the 1Password CLI: https://developer.1password.com/docs/cli/get-started/",
		"gpg":  "Install GnuPG: brew install gnupg",
		"git":  "Install Git: xcode-select --install",
	}

	suggestion := suggestions[command]
	if suggestion == "" {
		suggestion = fmt.Sprintf("Make sure '%s' is installed and in your PATH", command)
	}

	return CommandError{
		Command:    command,
		Message:    "command not found",
		Suggestion: suggestion,
	}
}
