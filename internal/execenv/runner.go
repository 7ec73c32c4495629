// Package execenv provides the command runner used for every external
// tool invocation (op, gpg, brew). The Runner interface allows CLI tool
// behavior to be mocked in tests.
package execenv

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/systmms/macstrap/internal/logging"
)

// Spec describes a single external invocation.
type Spec struct {
	Name  string            // Binary to run
	Args  []string          // Arguments
	Env   map[string]string // Overlay merged over the parent environment
	Dir   string            // Working directory (empty = inherit)
	Stdin string            // Piped to the child when non-empty
}

// Result captures everything a caller needs to inspect an invocation.
// A non-zero exit is not an error: callers check Success.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Success  bool
}

// Runner executes external commands.
type Runner interface {
	// Run executes the spec and returns the captured result. The
	// returned error is non-nil only when the process could not be
	// started at all (missing binary, canceled context); a process
	// that ran and exited non-zero yields Result.Success=false and
	// a nil error.
	Run(ctx context.Context, spec Spec) (Result, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct {
	logger *logging.Logger
}

// New creates the production runner.
func New(logger *logging.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

// Run executes an actual command.
func (r *ExecRunner) Run(ctx context.Context, spec Spec) (Result, error) {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)

	if len(spec.Env) > 0 {
		cmd.Env = mergeEnvironment(spec.Env)
	}
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	if spec.Stdin != "" {
		cmd.Stdin = strings.NewReader(spec.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("Executing command: %s %s", spec.Name, strings.Join(spec.Args, " "))
	if len(spec.Env) > 0 {
		r.logger.Debug("Environment overlay: %s", strings.Join(overlayNames(spec.Env), ", "))
	}

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	switch {
	case err == nil:
		result.Success = true
	default:
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			r.logger.Debug("Command exited with code %d", result.ExitCode)
			return result, nil
		}
		return result, fmt.Errorf("failed to run %s: %w", spec.Name, err)
	}

	return result, nil
}

// RunInteractive executes a command attached to the caller's terminal.
// Used for flows that block on user input, like 'op signin'.
func (r *ExecRunner) RunInteractive(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	r.logger.Debug("Executing interactive command: %s %s", name, strings.Join(args, " "))
	return cmd.Run()
}

// mergeEnvironment builds the child environment from the parent
// environment plus the overlay. Overlay values win.
func mergeEnvironment(overlay map[string]string) []string {
	envMap := make(map[string]string)
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}
	for key, value := range overlay {
		envMap[key] = value
	}

	result := make([]string, 0, len(envMap))
	for key, value := range envMap {
		result = append(result, fmt.Sprintf("%s=%s", key, value))
	}

	// Sort for consistent ordering (helps with debugging)
	sort.Strings(result)
	return result
}

// overlayNames returns the overlay's variable names, sorted. Values are
// never logged.
func overlayNames(overlay map[string]string) []string {
	names := make([]string, 0, len(overlay))
	for name := range overlay {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
