// Package cmd implements the stoker CLI. The root command turns its arguments
// into an ordered list of task invocations, composes them into a single
// pipeline and runs it.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stokerbuild/stoker/pkg/pipeline"
	"github.com/stokerbuild/stoker/pkg/project"
	"github.com/stokerbuild/stoker/pkg/res"
	"github.com/stokerbuild/stoker/pkg/tasks"
)

var rootCmd = &cobra.Command{
	Use:   "stoker [task [args...]] [, task [args...]]...",
	Short: "Task-pipeline build tool",
	Long: `stoker chains the requested tasks into a single pipeline and runs it.
Tasks are separated by a comma argument, for example:

  stoker clean , rebuild out/stoker`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := zerolog.New(NewConsoleWriter())
		ctx := pipeline.WithLogger(context.Background(), &logger)

		reg := tasks.Defaults()
		if len(args) == 0 {
			fmt.Println("Available tasks:")
			fmt.Print(pipeline.DescribeAll(reg))
			return nil
		}

		handler, err := pipeline.Build(reg, parseInvocations(args))
		if err != nil {
			return err
		}

		bctx := pipeline.NewContext(reg)
		seedFromDescriptor(bctx)

		return handler(ctx, bctx)
	},
}

// parseInvocations splits the argument list into task invocations. A comma
// (either a lone argument or trailing an argument) ends the current
// invocation; the next argument names the next task.
func parseInvocations(args []string) []pipeline.Invocation {
	invocations := make([]pipeline.Invocation, 0)
	open := false
	for _, arg := range args {
		closing := false
		if arg == "," {
			open = false
			continue
		}

		if strings.HasSuffix(arg, ",") {
			arg = arg[:len(arg)-1]
			closing = true
		}

		if open {
			last := &invocations[len(invocations)-1]
			last.Args = append(last.Args, arg)
		} else {
			invocations = append(invocations, pipeline.Invocation{Name: arg})
			open = true
		}

		if closing {
			open = false
		}
	}

	return invocations
}

// seedFromDescriptor fills the build context from the nearest descriptor,
// searching upwards from the current directory. A missing descriptor just
// leaves the context empty.
func seedFromDescriptor(b *pipeline.Context) {
	path, err := project.FindDescriptor(".")
	if err != nil {
		return
	}

	desc, err := project.Load(path)
	if err != nil {
		return
	}

	b.ProjectName = desc.Name()
	b.Version = desc.Version()
	b.Dependencies = desc.Dependencies()
	b.SourcePaths = desc.SourcePaths()
	b.Set(tasks.KeyRebuildExclusions, desc.Exclusions())
}

func Execute() {
	rootCmd.Version = res.Version()
	cobra.CheckErr(rootCmd.Execute())
}
