package tasks

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/stokerbuild/stoker/pkg/pipeline"
)

const defaultCleanDir = "target"

// timeFactory wraps the rest of the pipeline and reports its wall-clock time
// once every downstream task has finished.
func timeFactory(reg *pipeline.Registry, args []string) (pipeline.Middleware, error) {
	if len(args) > 0 {
		return nil, &pipeline.InvocationError{
			Task:   "time",
			Reason: "takes no arguments",
		}
	}

	return func(next pipeline.Handler) pipeline.Handler {
		return func(ctx context.Context, b *pipeline.Context) error {
			start := time.Now()
			defer func() {
				pipeline.Log(ctx).Info().
					Str("task", "time").
					Msgf("Pipeline took %s", time.Since(start).Round(time.Millisecond))
			}()

			return next(ctx, b)
		}
	}, nil
}

func cleanFactory(reg *pipeline.Registry, args []string) (pipeline.Middleware, error) {
	if len(args) > 1 {
		return nil, &pipeline.InvocationError{
			Task:   "clean",
			Reason: fmt.Sprintf("expected at most one argument (the directory), got %d", len(args)),
		}
	}

	dir := defaultCleanDir
	if len(args) == 1 {
		dir = args[0]
	}

	return func(next pipeline.Handler) pipeline.Handler {
		return func(ctx context.Context, b *pipeline.Context) error {
			err := os.RemoveAll(dir)
			if err != nil {
				return &pipeline.IOFailure{Op: "remove", Path: dir, Err: err}
			}

			return next(ctx, b)
		}
	}, nil
}

// helpFactory reads the registry out of the build context so that help output
// reflects the registry the pipeline actually runs against.
func helpFactory(reg *pipeline.Registry, args []string) (pipeline.Middleware, error) {
	if len(args) > 1 {
		return nil, &pipeline.InvocationError{
			Task:   "help",
			Reason: fmt.Sprintf("expected at most one task name, got %d arguments", len(args)),
		}
	}

	return func(next pipeline.Handler) pipeline.Handler {
		return func(ctx context.Context, b *pipeline.Context) error {
			if len(args) == 0 {
				fmt.Print("Available tasks:\n" + pipeline.DescribeAll(b.Tasks))
				return next(ctx, b)
			}

			doc, err := pipeline.DescribeOne(b.Tasks, args[0])
			if err != nil {
				return err
			}

			fmt.Print(doc)
			return next(ctx, b)
		}
	}, nil
}
