package tasks

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/stokerbuild/stoker/pkg/launcher"
	"github.com/stokerbuild/stoker/pkg/pipeline"
)

func scriptFactory(procs *launcher.Launcher) pipeline.Factory {
	return func(reg *pipeline.Registry, args []string) (pipeline.Middleware, error) {
		if len(args) == 0 {
			return nil, &pipeline.InvocationError{
				Task:   "script",
				Reason: "expected a shell snippet to run",
			}
		}

		script := strings.Join(args, " ")
		parser := syntax.NewParser()
		file, err := parser.Parse(strings.NewReader(script), "script")
		if err != nil {
			return nil, &pipeline.InvocationError{
				Task:   "script",
				Reason: "failed to parse shell snippet: " + err.Error(),
			}
		}

		return func(next pipeline.Handler) pipeline.Handler {
			return func(ctx context.Context, b *pipeline.Context) error {
				err := runScript(ctx, procs, b, file)
				if err != nil {
					return err
				}

				return next(ctx, b)
			}
		}, nil
	}
}

func runScript(ctx context.Context, procs *launcher.Launcher, b *pipeline.Context, file *syntax.File) error {
	envVars := os.Environ()
	envVars = append(envVars,
		"STOKER_PROJECT="+b.ProjectName,
		"STOKER_VERSION="+b.Version,
	)

	runner, err := interp.New(
		interp.Dir(procs.Dir()),
		interp.Env(expand.ListEnviron(envVars...)),
		interp.StdIO(nil, os.Stdout, os.Stderr),
		interp.Params("-e"),
	)
	if err != nil {
		return eris.Wrap(err, "Failed to initialize runner")
	}

	return runner.Run(ctx, file)
}
