// Package launcher spawns external processes for composite tasks. Output is
// drained on a background goroutine and forwarded as it is produced, so
// subprocess output interleaves live with the tool's own. Synchronization
// happens through the returned Handle; the launcher itself never turns a
// non-zero exit status into an error.
package launcher

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/aidarkhanov/nanoid"
	"github.com/rotisserie/eris"

	"github.com/stokerbuild/stoker/pkg/pipeline"
)

// Options configures a single launch.
type Options struct {
	// Dir overrides the working directory for this call. If empty, the
	// launcher's scoped default applies, falling back to the current
	// directory.
	Dir string
	// Env entries are appended to the inherited environment.
	Env map[string]string
	// Output receives the process output. Defaults to os.Stdout.
	Output io.Writer
	// SplitStderr keeps stderr on os.Stderr instead of merging it into the
	// output stream.
	SplitStderr bool
}

// Handle identifies a spawned process and synchronizes on its termination.
type Handle struct {
	ID string

	cmd     *exec.Cmd
	done    chan struct{}
	drained chan struct{}
	status  int
}

// Launcher spawns processes with a scoped default working directory. It is
// not safe for concurrent use; pipeline execution is single-threaded so the
// directory scope only has to survive nested calls.
type Launcher struct {
	dir string
}

func New() *Launcher {
	return &Launcher{}
}

// WithDir sets the default working directory for subsequent launches and
// returns a function that restores the previous default. Callers must defer
// the restore so nested scopes unwind correctly.
func (l *Launcher) WithDir(dir string) (restore func()) {
	prev := l.dir
	l.dir = dir
	return func() {
		l.dir = prev
	}
}

// Dir returns the current default working directory ("" means the process's
// own working directory).
func (l *Launcher) Dir() string {
	return l.dir
}

// Launch starts the process and returns immediately. The returned Handle's
// Wait blocks until the process exits and all output has been forwarded.
func (l *Launcher) Launch(ctx context.Context, command string, args []string, opts Options) (*Handle, error) {
	cmd := exec.Command(command, args...)

	cmd.Dir = opts.Dir
	if cmd.Dir == "" {
		cmd.Dir = l.dir
	}

	if len(opts.Env) > 0 {
		cmd.Env = os.Environ()
		for name, value := range opts.Env {
			cmd.Env = append(cmd.Env, name+"="+value)
		}
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	reader, writer, err := os.Pipe()
	if err != nil {
		return nil, eris.Wrap(err, "failed to create output pipe")
	}

	cmd.Stdout = writer
	if opts.SplitStderr {
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stderr = writer
	}

	if err := cmd.Start(); err != nil {
		reader.Close()
		writer.Close()
		return nil, eris.Wrapf(err, "failed to start %s", command)
	}

	// The child holds its own copy of the write end; ours has to go so the
	// reader sees EOF once the child exits.
	writer.Close()

	handle := &Handle{
		ID:      nanoid.New(),
		cmd:     cmd,
		done:    make(chan struct{}),
		drained: make(chan struct{}),
	}

	pipeline.Log(ctx).Debug().
		Str("process", handle.ID).
		Str("command", command).
		Strs("args", args).
		Msg("launched")

	go handle.stream(reader, output)
	go handle.waitLoop()

	return handle, nil
}

func (h *Handle) stream(reader *os.File, output io.Writer) {
	defer close(h.drained)
	defer reader.Close()

	io.Copy(output, reader)
}

func (h *Handle) waitLoop() {
	err := h.cmd.Wait()
	<-h.drained

	status := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			status = exitErr.ExitCode()
		} else {
			status = -1
		}
	}

	h.status = status
	close(h.done)
}

// Wait blocks until the process terminates and returns its exit status. It is
// idempotent: repeated calls return the same status and never block once the
// process has exited.
func (h *Handle) Wait() int {
	<-h.done
	return h.status
}

// Done is closed once the process has exited and its output is fully drained.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
