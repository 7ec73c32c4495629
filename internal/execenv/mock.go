package execenv

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockRunner provides a configurable Runner for testing CLI wrappers
// without the real tools installed.
type MockRunner struct {
	mu sync.Mutex

	// Responses maps command patterns to canned results.
	// Key format: "command arg1 arg2" (space-separated). A trailing
	// "*" makes the pattern a prefix match.
	Responses map[string]MockResponse

	// DefaultResponse is used when no pattern matches.
	DefaultResponse *MockResponse

	// Calls records every invocation for verification.
	Calls []Spec

	// StrictMode causes Run to fail on commands with no configured
	// response.
	StrictMode bool
}

// MockResponse defines the canned outcome for a matched command.
type MockResponse struct {
	Result Result
	Err    error
}

// NewMockRunner creates a mock with no configured responses.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Responses: make(map[string]MockResponse),
	}
}

// Run returns the canned response for the given spec.
func (m *MockRunner) Run(ctx context.Context, spec Spec) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, spec)

	key := buildKey(spec.Name, spec.Args)
	if resp, ok := m.Responses[key]; ok {
		return resp.Result, resp.Err
	}
	for pattern, resp := range m.Responses {
		if matchesPattern(key, pattern) {
			return resp.Result, resp.Err
		}
	}

	if m.DefaultResponse != nil {
		return m.DefaultResponse.Result, m.DefaultResponse.Err
	}
	if m.StrictMode {
		return Result{}, fmt.Errorf("mock: no response configured for command: %s", key)
	}
	return Result{Success: true}, nil
}

// AddResponse registers a successful invocation with the given stdout.
func (m *MockRunner) AddResponse(pattern, stdout string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = MockResponse{Result: Result{Stdout: stdout, Success: true}}
}

// AddStderrResponse registers a successful invocation whose output goes
// to the status stream, as gpg does.
func (m *MockRunner) AddStderrResponse(pattern, stderr string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = MockResponse{Result: Result{Stderr: stderr, Success: true}}
}

// AddFailure registers a non-zero exit with the given stderr.
func (m *MockRunner) AddFailure(pattern, stderr string, exitCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = MockResponse{Result: Result{Stderr: stderr, ExitCode: exitCode}}
}

// CallCount returns how many recorded calls match the pattern.
func (m *MockRunner) CallCount(pattern string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.Calls {
		key := buildKey(call.Name, call.Args)
		if key == pattern || matchesPattern(key, pattern) {
			count++
		}
	}
	return count
}

func buildKey(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// matchesPattern supports trailing-wildcard prefix patterns like
// "op item get *".
func matchesPattern(key, pattern string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(key, strings.TrimSuffix(pattern, "*"))
	}
	return key == pattern
}
