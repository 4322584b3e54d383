package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stokerbuild/stoker/pkg/launcher"
	"github.com/stokerbuild/stoker/pkg/pipeline"
	"github.com/stokerbuild/stoker/pkg/project"
)

const (
	defaultDelegateTool   = "make"
	defaultProjectName    = "anonymous"
	defaultProjectVersion = "0.1.0"

	// Context keys owned by the delegate task.
	KeyDelegateTool = "delegate.tool"
	KeyDelegateDir  = "delegate.dir"
)

func delegateFactory(procs *launcher.Launcher) pipeline.Factory {
	return func(reg *pipeline.Registry, args []string) (pipeline.Middleware, error) {
		return func(next pipeline.Handler) pipeline.Handler {
			return func(ctx context.Context, b *pipeline.Context) error {
				err := runDelegate(ctx, procs, b, args)
				if err != nil {
					return err
				}

				return next(ctx, b)
			}
		}, nil
	}
}

func runDelegate(ctx context.Context, procs *launcher.Launcher, b *pipeline.Context, args []string) error {
	dir := b.GetString(KeyDelegateDir)
	if dir == "" {
		dir = "."
	}

	descPath := filepath.Join(dir, project.DescriptorFile)
	_, err := os.Stat(descPath)
	if err == nil {
		return &pipeline.PreconditionError{
			Reason: fmt.Sprintf("a descriptor already exists at %s", descPath),
		}
	}
	if !os.IsNotExist(err) {
		return &pipeline.IOFailure{Op: "check", Path: descPath, Err: err}
	}

	name := b.ProjectName
	if name == "" {
		name = defaultProjectName
	}

	version := b.Version
	if version == "" {
		version = defaultProjectVersion
	}

	desc := project.New(name, version)
	if len(b.Dependencies) > 0 {
		desc.SetDependencies(b.Dependencies)
	}
	if len(b.SourcePaths) > 0 {
		desc.SetSourcePaths(b.SourcePaths)
	}

	err = desc.Save(descPath)
	if err != nil {
		return &pipeline.IOFailure{Op: "write", Path: descPath, Err: err}
	}
	// The descriptor only exists for the duration of the delegated call.
	defer os.Remove(descPath)

	tool := b.GetString(KeyDelegateTool)
	if tool == "" {
		tool = defaultDelegateTool
	}

	pipeline.Log(ctx).Info().Str("task", "delegate").Msgf("Invoking %s", tool)
	handle, err := procs.Launch(ctx, tool, args, launcher.Options{Dir: dir})
	if err != nil {
		return err
	}

	if status := handle.Wait(); status != 0 {
		return &pipeline.SubprocessFailure{Command: tool, ExitCode: status}
	}

	return nil
}
