// Package shell runs the external tools a build depends on (pkg-config, cmake, c-for-go).
// Every call blocks until the tool exits.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// ErrNotRan indicates the command could not be started, usually because it is not installed
var ErrNotRan = errors.New("command did not run")

// Runner executes a command and returns its standard output
type Runner interface {
	Run(ctx context.Context, name string, opts ...Option) (string, error)
}

// Options configures a single command execution
type Options struct {
	Args   []string
	Env    map[string]string
	Stream bool // copy output to the terminal while capturing it
}

// Option mutates Options
type Option func(*Options)

// WithArgs sets the command arguments
func WithArgs(args ...string) Option {
	return func(o *Options) {
		o.Args = append(o.Args, args...)
	}
}

// WithEnv adds environment variables on top of the inherited environment
func WithEnv(key, value string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string)
		}
		o.Env[key] = value
	}
}

// WithStream streams output to stdout/stderr as the command runs
func WithStream() Option {
	return func(o *Options) {
		o.Stream = true
	}
}

// Apply folds opts into an Options value
func Apply(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CommandError reports a command that ran and failed, or could not run at all
type CommandError struct {
	Name   string
	Args   []string
	Ran    bool
	Code   int
	Output string // stderr followed by stdout
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Name, strings.Join(e.Args, " "), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	if !e.Ran {
		return errors.Join(ErrNotRan, e.Err)
	}
	return e.Err
}

// Exec is the Runner backed by os/exec. Arguments and environment values reach the
// tool unexpanded.
type Exec struct {
	Logger *log.Logger
}

// waitDelay bounds how long Run waits for output after ctx kills the tool
const waitDelay = 2 * time.Second

// NewExec returns an Exec runner; a nil logger discards output
func NewExec(logger *log.Logger) *Exec {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Exec{Logger: logger}
}

// Run executes name and returns its stdout. Arguments are passed verbatim.
func (e *Exec) Run(ctx context.Context, name string, opts ...Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	o := Apply(opts...)
	e.Logger.Debug("exec", "cmd", name, "args", strings.Join(o.Args, " "))

	streamOutput := mg.Verbose() || o.Stream

	var stdout, stderr bytes.Buffer
	var outW, errW io.Writer = &stdout, &stderr
	if streamOutput {
		outW = io.MultiWriter(&stdout, os.Stdout)
		errW = io.MultiWriter(&stderr, os.Stderr)
	}

	cmd := exec.CommandContext(ctx, name, o.Args...)
	cmd.Stdout = outW
	cmd.Stderr = errW
	// children of a killed tool can hold the output pipes open
	cmd.WaitDelay = waitDelay
	if len(o.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range o.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return stdout.String(), ctx.Err()
		}
		var exitErr *exec.ExitError
		return stdout.String(), &CommandError{
			Name:   name,
			Args:   o.Args,
			Ran:    errors.As(err, &exitErr),
			Code:   sh.ExitStatus(err),
			Output: stderr.String() + stdout.String(),
			Err:    err,
		}
	}
	return stdout.String(), nil
}
