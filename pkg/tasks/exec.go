package tasks

import (
	"context"

	"github.com/stokerbuild/stoker/pkg/launcher"
	"github.com/stokerbuild/stoker/pkg/pipeline"
)

func execFactory(procs *launcher.Launcher) pipeline.Factory {
	return func(reg *pipeline.Registry, args []string) (pipeline.Middleware, error) {
		if len(args) == 0 {
			return nil, &pipeline.InvocationError{
				Task:   "exec",
				Reason: "expected a command to run",
			}
		}

		return func(next pipeline.Handler) pipeline.Handler {
			return func(ctx context.Context, b *pipeline.Context) error {
				handle, err := procs.Launch(ctx, args[0], args[1:], launcher.Options{})
				if err != nil {
					return err
				}

				if status := handle.Wait(); status != 0 {
					return &pipeline.SubprocessFailure{Command: args[0], ExitCode: status}
				}

				return next(ctx, b)
			}
		}, nil
	}
}
