// Package shelltest provides a scripted shell.Runner for tests
package shelltest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/arc-language/assimpsys/internal/shell"
)

// Call records one invocation
type Call struct {
	Name string
	Args []string
}

// String renders the call as a command line
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Response is what a scripted command returns
type Response struct {
	Stdout string
	Err    error
}

// Runner answers commands from a script keyed by command line
type Runner struct {
	mu       sync.Mutex
	script   map[string]Response
	fallback func(Call) Response
	calls    []Call
}

// New returns a Runner that fails every unscripted command as not installed
func New() *Runner {
	return &Runner{script: make(map[string]Response)}
}

// On scripts the response for an exact command line
func (r *Runner) On(cmdline string, stdout string, err error) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.script[cmdline] = Response{Stdout: stdout, Err: err}
	return r
}

// Fallback answers every unscripted command
func (r *Runner) Fallback(fn func(Call) Response) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = fn
	return r
}

// Run implements shell.Runner
func (r *Runner) Run(ctx context.Context, name string, opts ...shell.Option) (string, error) {
	o := shell.Apply(opts...)
	call := Call{Name: name, Args: o.Args}

	r.mu.Lock()
	r.calls = append(r.calls, call)
	resp, ok := r.script[call.String()]
	fallback := r.fallback
	r.mu.Unlock()

	if ok {
		return resp.Stdout, resp.Err
	}
	if fallback != nil {
		resp = fallback(call)
		return resp.Stdout, resp.Err
	}
	return "", &shell.CommandError{Name: name, Args: o.Args, Ran: false, Err: fmt.Errorf("exec: %q: not scripted", name)}
}

// Calls returns every recorded invocation
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Called reports whether any invocation of name happened
func (r *Runner) Called(name string) bool {
	for _, c := range r.Calls() {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Failed returns an error shaped like a command that ran and exited non-zero
func Failed(name, output string) error {
	return &shell.CommandError{Name: name, Ran: true, Code: 1, Output: output, Err: fmt.Errorf("exit status 1")}
}
