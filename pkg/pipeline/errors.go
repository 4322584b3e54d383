package pipeline

import "fmt"

// UnknownTaskError is returned when an invocation references a task name that
// was never registered.
type UnknownTaskError struct {
	Task string
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("unknown task %q", e.Task)
}

// InvocationError is returned when a task rejects its arguments (wrong arity,
// unparsable value). It always fires during pipeline construction, before any
// handler runs.
type InvocationError struct {
	Task   string
	Reason string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invalid invocation of task %q: %s", e.Task, e.Reason)
}

// PreconditionError signals that a hard precondition of a task is violated,
// for example a descriptor file already existing where a temporary one should
// be written. It is not recoverable within the pipeline.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition violated: %s", e.Reason)
}

// SubprocessFailure reports a non-zero exit status from an external tool. The
// launcher itself never raises this; composite tasks that treat a failed
// subprocess as fatal do.
type SubprocessFailure struct {
	Command  string
	ExitCode int
}

func (e *SubprocessFailure) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.ExitCode)
}

// IOFailure wraps a file operation error raised by a composite task.
type IOFailure struct {
	Op   string
	Path string
	Err  error
}

func (e *IOFailure) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOFailure) Unwrap() error {
	return e.Err
}
