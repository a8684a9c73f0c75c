package exec

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
)

// MockResponse defines the response for a mocked command.
type MockResponse struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

// CommandMatcher is a function that determines if a command matches.
type CommandMatcher func(dir, name string, args []string) bool

// MockRule defines a matching rule and its response. A rule with a
// Sequence answers with its entries in order and then repeats the last one.
type MockRule struct {
	Match    CommandMatcher
	Response MockResponse
	Sequence []MockResponse
	served   int
}

// MockCall records a command invocation for verification.
type MockCall struct {
	Dir  string
	Name string
	Args []string
}

// String renders the call the way a user would type it.
func (c MockCall) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// MockExecutor returns pre-recorded responses for commands.
// The most recently added matching rule wins, so a test can override a
// shared fixture. Unmatched commands succeed with empty output.
type MockExecutor struct {
	mu      sync.RWMutex
	rules   []MockRule
	calls   []MockCall
	missing map[string]bool
}

// NewMockExecutor creates a new MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{missing: make(map[string]bool)}
}

// AddRule adds a matching rule with its response.
func (e *MockExecutor) AddRule(match CommandMatcher, response MockResponse) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = append(e.rules, MockRule{Match: match, Response: response})
}

// AddExactMatch adds a rule that matches a specific command exactly.
func (e *MockExecutor) AddExactMatch(name string, args []string, response MockResponse) {
	e.AddRule(func(_ string, n string, a []string) bool {
		return n == name && slices.Equal(a, args)
	}, response)
}

// AddExactSequence adds a rule for a specific command that answers each
// call with the next response, repeating the last one when they run out.
func (e *MockExecutor) AddExactSequence(name string, args []string, responses ...MockResponse) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = append(e.rules, MockRule{
		Match: func(_ string, n string, a []string) bool {
			return n == name && slices.Equal(a, args)
		},
		Sequence: responses,
	})
}

// AddPrefixMatch adds a rule that matches commands starting with specific args.
func (e *MockExecutor) AddPrefixMatch(name string, prefixArgs []string, response MockResponse) {
	e.AddRule(func(_ string, n string, a []string) bool {
		return n == name && len(a) >= len(prefixArgs) && slices.Equal(a[:len(prefixArgs)], prefixArgs)
	}, response)
}

// SetMissing makes LookPath fail for the named binary.
func (e *MockExecutor) SetMissing(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.missing[name] = true
}

// GetCalls returns all recorded command invocations.
func (e *MockExecutor) GetCalls() []MockCall {
	e.mu.RLock()
	defer e.mu.RUnlock()
	calls := make([]MockCall, len(e.calls))
	copy(calls, e.calls)
	return calls
}

// CallStrings returns the recorded invocations rendered with MockCall.String.
func (e *MockExecutor) CallStrings() []string {
	calls := e.GetCalls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.String())
	}
	return out
}

// ClearCalls clears the recorded command invocations.
func (e *MockExecutor) ClearCalls() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

func (e *MockExecutor) findMatch(dir, name string, args []string) *MockResponse {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := len(e.rules) - 1; i >= 0; i-- {
		rule := &e.rules[i]
		if !rule.Match(dir, name, args) {
			continue
		}
		if len(rule.Sequence) == 0 {
			return &rule.Response
		}
		resp := rule.Sequence[min(rule.served, len(rule.Sequence)-1)]
		rule.served++
		return &resp
	}
	return nil
}

func (e *MockExecutor) recordCall(dir, name string, args []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, MockCall{Dir: dir, Name: name, Args: slices.Clone(args)})
}

// Run executes a mocked command.
func (e *MockExecutor) Run(_ context.Context, dir string, name string, args ...string) (stdout, stderr []byte, err error) {
	e.recordCall(dir, name, args)

	if resp := e.findMatch(dir, name, args); resp != nil {
		return resp.Stdout, resp.Stderr, resp.Err
	}
	return nil, nil, nil
}

// Stream executes a mocked command, copying the scripted output to the writers.
func (e *MockExecutor) Stream(_ context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	e.recordCall(dir, name, args)

	resp := e.findMatch(dir, name, args)
	if resp == nil {
		return nil
	}
	if stdout != nil && len(resp.Stdout) > 0 {
		_, _ = stdout.Write(resp.Stdout)
	}
	if stderr != nil && len(resp.Stderr) > 0 {
		_, _ = stderr.Write(resp.Stderr)
	}
	return resp.Err
}

// LookPath succeeds for every binary not marked with SetMissing.
func (e *MockExecutor) LookPath(name string) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return "/usr/bin/" + name, nil
}

// StatusError is a scripted process failure carrying an exit status,
// standing in for *os/exec.ExitError in mocks.
type StatusError struct {
	Status int
}

// NewStatusError returns a StatusError for the given exit status.
func NewStatusError(status int) *StatusError {
	return &StatusError{Status: status}
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.Status)
}

// ExitCode matches the method on *os/exec.ExitError.
func (e *StatusError) ExitCode() int {
	return e.Status
}

var _ CommandExecutor = (*MockExecutor)(nil)
