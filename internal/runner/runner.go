// Package runner launches one external toolchain command, feeds its
// combined output through a texlog classifier, and returns a uniform
// result record. No retries happen at this layer; a failing tool is
// reported upward as-is.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"git.home.luguber.info/inful/texbuild/internal/texlog"
)

// ErrToolNotFound marks a missing external executable. This is a
// collaborator failure, not a document diagnostic: it is never folded
// into a ParseResult.
var ErrToolNotFound = errors.New("texbuild: tool not found")

// Invocation describes one external process to run.
type Invocation struct {
	Name string   // executable name, resolved via PATH
	Args []string
	Dir  string // working directory (the typeset directory)
	// Encoding decodes the tool's output before classification. Nil means
	// the output is consumed as-is (UTF-8 toolchains).
	Encoding encoding.Encoding
}

func (inv Invocation) String() string {
	s := inv.Name
	for _, a := range inv.Args {
		s += " " + a
	}
	return s
}

// RunResult pairs the process exit status with the classified output.
// The exit status is advisory: the classifier is the sole authority on
// error and warning counts.
type RunResult struct {
	ExitStatus int
	Parse      texlog.ParseResult
}

// Runner executes tool invocations. The single production implementation
// is ExecRunner; tests substitute canned streams.
type Runner interface {
	// Look reports whether the named executable can be resolved; the
	// coordinator calls it before a stage so a misconfigured toolchain
	// aborts the build up front as a collaborator failure.
	Look(name string) error
	Run(ctx context.Context, inv Invocation, parser *texlog.Parser) (RunResult, error)
}

// ExecRunner runs invocations with os/exec, merging stderr into stdout so
// diagnostics are observed in emission order.
type ExecRunner struct{}

// LookTool reports whether the named executable can be resolved, wrapping
// the failure in ErrToolNotFound. Coordinators call this before building
// so a misconfigured toolchain aborts up front.
func LookTool(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return nil
}

// Look implements Runner.
func (ExecRunner) Look(name string) error { return LookTool(name) }

// Run starts the process, drains its merged output through the parser and
// waits for exit. The pipe is fully drained and the process reaped on
// every path. Classification failures cannot occur (the parser treats
// malformed input as unclassified lines), so the only error conditions
// are process start failures.
func (ExecRunner) Run(ctx context.Context, inv Invocation, parser *texlog.Parser) (RunResult, error) {
	if _, err := exec.LookPath(inv.Name); err != nil {
		return RunResult{}, fmt.Errorf("%w: %s", ErrToolNotFound, inv.Name)
	}

	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return RunResult{}, fmt.Errorf("attach output pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	slog.Debug("Running toolchain command", "command", inv.String(), "dir", inv.Dir)
	if err := cmd.Start(); err != nil {
		return RunResult{}, fmt.Errorf("start %s: %w", inv.Name, err)
	}

	var stream io.Reader = stdout
	if inv.Encoding != nil {
		stream = transform.NewReader(stdout, inv.Encoding.NewDecoder())
	}
	parse := parser.Parse(stream)

	// Wait reaps the process; a nonzero exit is expected for tools that
	// found document problems and is carried in ExitStatus, not in err.
	exitStatus := 0
	if err := cmd.Wait(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			exitStatus = ee.ExitCode()
		} else {
			return RunResult{Parse: parse}, fmt.Errorf("wait for %s: %w", inv.Name, err)
		}
	}
	slog.Debug("Toolchain command finished",
		"command", inv.Name, "exit", exitStatus,
		"errors", parse.Errors, "warnings", parse.Warnings, "fatal", parse.Fatal)
	return RunResult{ExitStatus: exitStatus, Parse: parse}, nil
}
