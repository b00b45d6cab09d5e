// Package hooks invokes an external command after tasks are saved.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// waitDelay bounds how long Invoke waits for output after the hook is killed.
const waitDelay = 2 * time.Second

// Options configures a hook invocation.
type Options struct {
	Command string
	Event   string
	TaskID  string
	WorkDir string
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
	Output   string
}

// Invoke runs the hook command as `<command> <event> <task-id>`.
// The event and task ID are also exported as TASKBOARD_EVENT and
// TASKBOARD_TASK_ID. Combined output is captured, not streamed, so the
// hook cannot draw over the terminal UI.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	if opts.Command == "" {
		return Result{}, nil
	}
	if opts.Event == "" {
		return Result{}, fmt.Errorf("hook event is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, opts.Command, opts.Event, opts.TaskID)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Env = append(os.Environ(),
		"TASKBOARD_EVENT="+opts.Event,
		"TASKBOARD_TASK_ID="+opts.TaskID,
	)
	cmd.WaitDelay = waitDelay
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
		Output:   out.String(),
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
